package config

import (
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/designpipe/internal/responsive"
	"git.home.luguber.info/inful/designpipe/internal/retry"
	"git.home.luguber.info/inful/designpipe/internal/transforms"
)

// ValidateConfig validates the complete configuration.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validatePipeline,
		cv.validateBreakpoints,
		cv.validateVector,
		cv.validateMerge,
		cv.validateAssets,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validatePipeline() error {
	p := cv.config.Pipeline
	if p.ContinueOnError == nil {
		return errors.New("pipeline.continue_on_error must be set explicitly")
	}
	for _, name := range p.EnabledPasses {
		if _, ok := transforms.Lookup(name); !ok {
			return fmt.Errorf("pipeline.enabled_passes: unknown pass %q", name)
		}
	}
	return nil
}

func (cv *configurationValidator) validateBreakpoints() error {
	b := cv.config.Breakpoints
	widths := b.Widths()
	if err := widths.Validate(); err != nil {
		return fmt.Errorf("breakpoints: %w", err)
	}
	if (b.TabletPrefix == "") != (b.MobilePrefix == "") {
		return errors.New("breakpoints: tablet_prefix and mobile_prefix must be set together")
	}
	if b.TabletPrefix != "" {
		if err := b.Prefixes().Validate(); err != nil {
			return fmt.Errorf("breakpoints: %w", err)
		}
		return nil
	}
	if _, err := widths.Prefixes(); err != nil {
		return fmt.Errorf("breakpoints: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateVector() error {
	v := cv.config.Vector
	if v.MinMembers < 1 {
		return fmt.Errorf("vector.min_members must be at least 1, got %d", v.MinMembers)
	}
	if v.MaxDistinctAssets < 1 {
		return fmt.Errorf("vector.max_distinct_assets must be at least 1, got %d", v.MaxDistinctAssets)
	}
	if v.MaxDepth < 1 {
		return fmt.Errorf("vector.max_depth must be at least 1, got %d", v.MaxDepth)
	}
	return nil
}

func (cv *configurationValidator) validateMerge() error {
	if t := cv.config.Merge.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("merge.similarity_threshold must be in (0, 1], got %g", t)
	}
	return nil
}

func (cv *configurationValidator) validateAssets() error {
	a := cv.config.Assets
	if a.CacheSize < 0 {
		return fmt.Errorf("assets.cache_size must not be negative, got %d", a.CacheSize)
	}
	if a.S3 == nil {
		return nil
	}
	if a.S3.Endpoint == "" || a.S3.Bucket == "" {
		return errors.New("assets.s3: endpoint and bucket are required")
	}
	if a.S3.AccessKey == "" || a.S3.SecretKey == "" {
		return errors.New("assets.s3: access_key and secret_key are required")
	}
	if _, err := time.ParseDuration(a.S3.Timeout); err != nil {
		return fmt.Errorf("assets.s3.timeout: %w", err)
	}
	if a.S3.Retries != nil && *a.S3.Retries < 0 {
		return fmt.Errorf("assets.s3.retries must not be negative, got %d", *a.S3.Retries)
	}
	if _, err := retry.ParseBackoffMode(a.S3.Backoff); err != nil {
		return fmt.Errorf("assets.s3.backoff: %w", err)
	}
	return nil
}

// Widths returns the configured viewport widths.
func (b BreakpointsConfig) Widths() responsive.Breakpoints {
	return responsive.Breakpoints{Desktop: b.Desktop, Tablet: b.Tablet, Mobile: b.Mobile}
}

// Prefixes returns the explicit override prefixes, empty when derived.
func (b BreakpointsConfig) Prefixes() responsive.Prefixes {
	return responsive.Prefixes{Tablet: b.TabletPrefix, Mobile: b.MobilePrefix}
}
