package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAMLAndJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"yaml", "nodes:\n  \"1:2\":\n    name: Hero\n    width: 1440\n  \"1:3\":\n    name: Title\n"},
		{"json", `{"nodes": {"1:2": {"name": "Hero", "width": 1440}, "1:3": {"name": "Title"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := Parse([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, 2, ix.Len())

			name, ok := ix.Name("1:2")
			assert.True(t, ok)
			assert.Equal(t, "Hero", name)

			w, ok := ix.Width("1:2")
			assert.True(t, ok)
			assert.InDelta(t, 1440, w, 0.001)

			_, ok = ix.Width("1:3")
			assert.False(t, ok)
		})
	}
}

func TestNilIndex(t *testing.T) {
	var ix *Index
	_, ok := ix.Name("1:2")
	assert.False(t, ok)
	assert.Equal(t, 0, ix.Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  a: {name: Logo}\n"), 0o600))

	ix, err := Load(path)
	require.NoError(t, err)
	name, _ := ix.Name("a")
	assert.Equal(t, "Logo", name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
