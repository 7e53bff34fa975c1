// Package assets resolves asset paths referenced by markup import bindings
// to raw bytes, from a directory, an in-memory map or an S3 bucket.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that no asset exists at the requested path.
var ErrNotFound = errors.New("asset not found")

// Source reads asset bytes by path.
type Source interface {
	Read(assetPath string) ([]byte, error)
}

// Sink stores generated assets.
type Sink interface {
	Write(assetPath string, data []byte) error
}

// NormalizePath turns an import path into a source-relative key: URL scheme
// and host are dropped, as are "./" and leading slashes.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// FSSource reads from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource { return &FSSource{fsys: fsys} }

// NewDirSource reads from a directory on disk.
func NewDirSource(dir string) *FSSource { return NewFSSource(os.DirFS(dir)) }

func (s *FSSource) Read(assetPath string) ([]byte, error) {
	key := NormalizePath(assetPath)
	if key == "" || !fs.ValidPath(key) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, assetPath)
	}
	data, err := fs.ReadFile(s.fsys, key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", key, err)
	}
	return data, nil
}

// MapSource serves assets from memory; keys are normalized paths.
type MapSource map[string][]byte

func (m MapSource) Read(assetPath string) ([]byte, error) {
	if data, ok := m[NormalizePath(assetPath)]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, assetPath)
}

func (m MapSource) Write(assetPath string, data []byte) error {
	m[NormalizePath(assetPath)] = data
	return nil
}

// DirSink writes generated assets below a directory.
type DirSink struct {
	Dir string
}

func (d DirSink) Write(assetPath string, data []byte) error {
	key := NormalizePath(assetPath)
	if key == "" || strings.HasPrefix(key, "..") {
		return fmt.Errorf("invalid asset path %q", assetPath)
	}
	target := filepath.Join(d.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write asset %s: %w", key, err)
	}
	return nil
}

// Chain tries each source in order and returns the first hit.
type Chain []Source

func (c Chain) Read(assetPath string) ([]byte, error) {
	for _, s := range c {
		data, err := s.Read(assetPath)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, assetPath)
}
