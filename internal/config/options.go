package config

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/metrics"
	"git.home.luguber.info/inful/designpipe/internal/responsive"
	"git.home.luguber.info/inful/designpipe/internal/retry"
	"git.home.luguber.info/inful/designpipe/internal/transforms"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// PipelineOptions returns the transform run options.
func (c *Config) PipelineOptions(recorder metrics.Recorder) transforms.Options {
	return transforms.Options{
		Enabled:         c.Pipeline.EnabledPasses,
		ContinueOnError: c.Pipeline.ContinueOnError != nil && *c.Pipeline.ContinueOnError,
		Recorder:        recorder,
	}
}

// VectorOptions returns the group detection thresholds.
func (c *Config) VectorOptions() vector.Options {
	return vector.Options{
		MinMembers:        c.Vector.MinMembers,
		MaxDistinctAssets: c.Vector.MaxDistinctAssets,
		MaxDepth:          c.Vector.MaxDepth,
	}
}

// MergeOptions returns the responsive merge options.
func (c *Config) MergeOptions(logger *slog.Logger, recorder metrics.Recorder) responsive.Options {
	return responsive.Options{
		Breakpoints:         c.Breakpoints.Widths(),
		Prefixes:            c.Breakpoints.Prefixes(),
		SimilarityThreshold: c.Merge.SimilarityThreshold,
		Logger:              logger,
		Recorder:            recorder,
	}
}

// AssetSource builds the configured asset source behind an LRU cache. It
// returns nil when no source is configured.
func (c *Config) AssetSource(recorder metrics.Recorder) (assets.Source, error) {
	var chain assets.Chain
	if s3 := c.Assets.S3; s3 != nil {
		timeout, err := time.ParseDuration(s3.Timeout)
		if err != nil {
			return nil, fmt.Errorf("assets.s3.timeout: %w", err)
		}
		mode, err := retry.ParseBackoffMode(s3.Backoff)
		if err != nil {
			return nil, fmt.Errorf("assets.s3.backoff: %w", err)
		}
		retries := -1
		if s3.Retries != nil {
			retries = *s3.Retries
		}
		store, err := assets.NewS3Store(assets.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			UseSSL:    s3.UseSSL,
			Timeout:   timeout,
			Retry:     retry.NewPolicy(mode, 0, 0, retries),
		})
		if err != nil {
			return nil, err
		}
		chain = append(chain, store)
	}
	if c.Assets.Dir != "" {
		chain = append(chain, assets.NewDirSource(c.Assets.Dir))
	}
	if len(chain) == 0 {
		return nil, nil
	}
	var src assets.Source = chain
	if len(chain) == 1 {
		src = chain[0]
	}
	cached, err := assets.NewCachedSource(src, c.Assets.CacheSize, recorder)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
