package config

import (
	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/responsive"
	"git.home.luguber.info/inful/designpipe/internal/retry"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// BreakpointsDefaultApplier fills viewport widths.
type BreakpointsDefaultApplier struct{}

func (BreakpointsDefaultApplier) Domain() string { return "breakpoints" }

func (BreakpointsDefaultApplier) ApplyDefaults(cfg *Config) error {
	b := &cfg.Breakpoints
	if b.Desktop == 0 && b.Tablet == 0 && b.Mobile == 0 {
		b.Desktop = responsive.DefaultBreakpoints.Desktop
		b.Tablet = responsive.DefaultBreakpoints.Tablet
		b.Mobile = responsive.DefaultBreakpoints.Mobile
	}
	return nil
}

// VectorDefaultApplier fills group detection thresholds.
type VectorDefaultApplier struct{}

func (VectorDefaultApplier) Domain() string { return "vector" }

func (VectorDefaultApplier) ApplyDefaults(cfg *Config) error {
	v := &cfg.Vector
	if v.MinMembers == 0 {
		v.MinMembers = vector.DefaultMinMembers
	}
	if v.MaxDistinctAssets == 0 {
		v.MaxDistinctAssets = vector.DefaultMaxDistinctAssets
	}
	if v.MaxDepth == 0 {
		v.MaxDepth = vector.DefaultMaxDepth
	}
	return nil
}

// MergeDefaultApplier fills the correspondence threshold.
type MergeDefaultApplier struct{}

func (MergeDefaultApplier) Domain() string { return "merge" }

func (MergeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Merge.SimilarityThreshold == 0 {
		cfg.Merge.SimilarityThreshold = responsive.DefaultSimilarityThreshold
	}
	return nil
}

// AssetsDefaultApplier fills the cache size and S3 region.
type AssetsDefaultApplier struct{}

func (AssetsDefaultApplier) Domain() string { return "assets" }

func (AssetsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Assets.CacheSize == 0 {
		cfg.Assets.CacheSize = assets.DefaultCacheSize
	}
	if s3 := cfg.Assets.S3; s3 != nil {
		if s3.Region == "" {
			s3.Region = "us-east-1"
		}
		if s3.Timeout == "" {
			s3.Timeout = "30s"
		}
		if s3.Backoff == "" {
			s3.Backoff = string(retry.BackoffLinear)
		}
	}
	return nil
}

// OutputDefaultApplier fills output locations.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./out"
	}
	if cfg.Output.AssetDir == "" {
		cfg.Output.AssetDir = "assets"
	}
	return nil
}

// LoggingDefaultApplier normalizes logging enumerations.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// CompositeDefaultApplier runs the domain appliers in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier for every configuration domain.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{appliers: []DefaultApplier{
		BreakpointsDefaultApplier{},
		VectorDefaultApplier{},
		MergeDefaultApplier{},
		AssetsDefaultApplier{},
		OutputDefaultApplier{},
		LoggingDefaultApplier{},
	}}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Domains lists the covered domains in application order.
func (c *CompositeDefaultApplier) Domains() []string {
	out := make([]string, 0, len(c.appliers))
	for _, a := range c.appliers {
		out = append(out, a.Domain())
	}
	return out
}

func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}
