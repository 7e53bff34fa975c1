// Package metadata loads the design-tool sidecar that maps node identifiers
// to layer names and measured widths.
package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeInfo is what the sidecar knows about one design node.
type NodeInfo struct {
	Name  string  `yaml:"name" json:"name"`
	Width float64 `yaml:"width,omitempty" json:"width,omitempty"`
}

type document struct {
	Nodes map[string]NodeInfo `yaml:"nodes"`
}

// Index answers lookups by node identifier. A nil *Index is empty.
type Index struct {
	nodes map[string]NodeInfo
}

// NewIndex builds an index from an in-memory map.
func NewIndex(nodes map[string]NodeInfo) *Index {
	cp := make(map[string]NodeInfo, len(nodes))
	for k, v := range nodes {
		cp[k] = v
	}
	return &Index{nodes: cp}
}

// Parse reads a YAML or JSON sidecar of the form {nodes: {id: {name, width}}}.
func Parse(data []byte) (*Index, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return NewIndex(doc.Nodes), nil
}

// Load reads a sidecar file from disk.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	return Parse(data)
}

// Lookup returns the entry for id.
func (ix *Index) Lookup(id string) (NodeInfo, bool) {
	if ix == nil || id == "" {
		return NodeInfo{}, false
	}
	info, ok := ix.nodes[id]
	return info, ok
}

// Name returns the layer name recorded for id.
func (ix *Index) Name(id string) (string, bool) {
	info, ok := ix.Lookup(id)
	if !ok || info.Name == "" {
		return "", false
	}
	return info.Name, true
}

// Width returns the measured width recorded for id.
func (ix *Index) Width(id string) (float64, bool) {
	info, ok := ix.Lookup(id)
	if !ok || info.Width <= 0 {
		return 0, false
	}
	return info.Width, true
}

// Len reports the number of entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodes)
}
