// Package config loads designpipe configuration from YAML or TOML files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the complete designpipe configuration.
type Config struct {
	Pipeline    PipelineConfig    `yaml:"pipeline" toml:"pipeline"`
	Breakpoints BreakpointsConfig `yaml:"breakpoints" toml:"breakpoints"`
	Vector      VectorConfig      `yaml:"vector" toml:"vector"`
	Merge       MergeConfig       `yaml:"merge" toml:"merge"`
	Assets      AssetsConfig      `yaml:"assets" toml:"assets"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics" toml:"metrics"`
}

// PipelineConfig selects passes and failure handling.
type PipelineConfig struct {
	// EnabledPasses restricts the run to the named passes. Empty means all.
	EnabledPasses []string `yaml:"enabled_passes,omitempty" toml:"enabled_passes,omitempty"`
	// ContinueOnError must be set explicitly; there is no safe default.
	ContinueOnError *bool `yaml:"continue_on_error" toml:"continue_on_error"`
}

// BreakpointsConfig holds the viewport widths of the three design variants.
// Prefixes are derived from the widths unless both are given.
type BreakpointsConfig struct {
	Desktop      int    `yaml:"desktop" toml:"desktop"`
	Tablet       int    `yaml:"tablet" toml:"tablet"`
	Mobile       int    `yaml:"mobile" toml:"mobile"`
	TabletPrefix string `yaml:"tablet_prefix,omitempty" toml:"tablet_prefix,omitempty"`
	MobilePrefix string `yaml:"mobile_prefix,omitempty" toml:"mobile_prefix,omitempty"`
}

// VectorConfig tunes vector group detection.
type VectorConfig struct {
	MinMembers        int `yaml:"min_members" toml:"min_members"`
	MaxDistinctAssets int `yaml:"max_distinct_assets" toml:"max_distinct_assets"`
	MaxDepth          int `yaml:"max_depth" toml:"max_depth"`
}

// MergeConfig tunes the responsive merge.
type MergeConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" toml:"similarity_threshold"`
}

// AssetsConfig locates vector member assets. S3 takes precedence over Dir
// when both are set; Dir is then consulted on a bucket miss.
type AssetsConfig struct {
	Dir       string    `yaml:"dir,omitempty" toml:"dir,omitempty"`
	CacheSize int       `yaml:"cache_size" toml:"cache_size"`
	S3        *S3Config `yaml:"s3,omitempty" toml:"s3,omitempty"`
}

// S3Config describes an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Region    string `yaml:"region,omitempty" toml:"region,omitempty"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	Prefix    string `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	UseSSL    bool   `yaml:"use_ssl" toml:"use_ssl"`
	Timeout   string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	// Retries counts extra attempts for transient failures; nil means 2.
	Retries *int   `yaml:"retries,omitempty" toml:"retries,omitempty"`
	Backoff string `yaml:"backoff,omitempty" toml:"backoff,omitempty"` // fixed|linear|exponential
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Directory string `yaml:"directory" toml:"directory"`
	// AssetDir is relative to Directory and prefixes generated asset paths.
	AssetDir string `yaml:"asset_dir" toml:"asset_dir"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level" toml:"level"`
	Format LogFormat `yaml:"format" toml:"format"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// Load reads configPath, expands environment variables, applies defaults and
// validates the result. The format follows the file extension.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(".env", ".env.local")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data, formatOf(configPath))
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", slog.String("path", configPath))
	return cfg, nil
}

// Parse decodes data in the given format ("yaml" or "toml") and finishes it
// like Load.
func Parse(data []byte, format string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch format {
	case "toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal toml config: %w", err)
		}
	case "yaml", "":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

// Default returns a complete configuration with every default applied and
// continue_on_error disabled.
func Default() *Config {
	off := false
	cfg := &Config{Pipeline: PipelineConfig{ContinueOnError: &off}}
	_ = applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file. The format follows the file
// extension.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Assets.Dir = "./assets"

	var (
		data []byte
		err  error
	)
	if formatOf(configPath) == "toml" {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(example)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(example)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
