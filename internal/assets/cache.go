package assets

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/designpipe/internal/metrics"
)

const DefaultCacheSize = 256

// CachedSource keeps recently read assets in memory. Misses are not cached.
type CachedSource struct {
	next     Source
	cache    *lru.Cache[string, []byte]
	recorder metrics.Recorder
}

// NewCachedSource wraps next with an LRU of the given size.
func NewCachedSource(next Source, size int, recorder metrics.Recorder) (*CachedSource, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("init asset cache: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &CachedSource{next: next, cache: cache, recorder: recorder}, nil
}

func (c *CachedSource) Read(assetPath string) ([]byte, error) {
	key := NormalizePath(assetPath)
	if data, ok := c.cache.Get(key); ok {
		c.recorder.IncAssetRead(metrics.AssetHit)
		return data, nil
	}
	data, err := c.next.Read(assetPath)
	if err != nil {
		c.recorder.IncAssetRead(metrics.AssetError)
		return nil, err
	}
	c.recorder.IncAssetRead(metrics.AssetMiss)
	c.cache.Add(key, data)
	return data, nil
}

// Purge drops every cached entry.
func (c *CachedSource) Purge() { c.cache.Purge() }

// Len reports the number of cached entries.
func (c *CachedSource) Len() int { return c.cache.Len() }
