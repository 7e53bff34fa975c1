package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/config"
	"git.home.luguber.info/inful/designpipe/internal/convert"
	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/metadata"
	"git.home.luguber.info/inful/designpipe/internal/metrics"
)

// DefaultConfigPath is used when --config is not given. A missing default
// file means built-in defaults.
const DefaultConfigPath = "designpipe.yaml"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (.yaml or .toml)" default:"designpipe.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Transform TransformCmd `cmd:"" help:"Run the transform pipeline on a markup file"`
	Merge     MergeCmd     `cmd:"" help:"Merge desktop, tablet and mobile variants into one responsive component"`
	Watch     WatchCmd     `cmd:"" help:"Re-run the transform whenever the input changes"`
	Inspect   InspectCmd   `cmd:"" help:"Print the parsed element tree of a markup file"`
	Visualize VisualizeCmd `cmd:"" help:"Visualize the pass order (text, mermaid, dot, json)"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// runtime bundles what a processing command needs, built from configuration.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder
	assets   assets.Source
	metadata *metadata.Index
}

func loadConfig(root *CLI) (*config.Config, error) {
	if root.Config == DefaultConfigPath {
		if _, err := os.Stat(root.Config); os.IsNotExist(err) {
			slog.Debug("No configuration file, using defaults", logfields.Path(root.Config))
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "load configuration").
			WithContext("path", root.Config).
			Build()
	}
	return cfg, nil
}

// newRuntime loads configuration, configures logging and metrics and opens
// the asset source. metadataPath may be empty.
func newRuntime(g *Global, root *CLI, metadataPath string) (*runtime, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: setupLogging(cfg.Logging, root.Verbose), recorder: metrics.NoopRecorder{}}
	if g != nil {
		g.Logger = rt.logger
	}
	if cfg.Metrics.Textfile != "" {
		rt.prom = metrics.NewPrometheusRecorder(nil)
		rt.recorder = rt.prom
	}
	rt.assets, err = cfg.AssetSource(rt.recorder)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "open asset source").Build()
	}
	if metadataPath != "" {
		rt.metadata, err = metadata.Load(metadataPath)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryParse, "load metadata").
				WithContext("path", metadataPath).
				Build()
		}
		rt.logger.Debug("Metadata loaded", logfields.Path(metadataPath), logfields.Count(rt.metadata.Len()))
	}
	return rt, nil
}

func setupLogging(lc config.LoggingConfig, verbose bool) *slog.Logger {
	level := lc.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func (rt *runtime) processOptions(passes []string, continueOnError bool) convert.Options {
	po := rt.cfg.PipelineOptions(rt.recorder)
	if len(passes) > 0 {
		po.Enabled = passes
	}
	po.ContinueOnError = po.ContinueOnError || continueOnError
	return convert.Options{
		Pipeline: po,
		Metadata: rt.metadata,
		Assets:   rt.assets,
		AssetDir: rt.cfg.Output.AssetDir,
		Vector:   rt.cfg.VectorOptions(),
		RunID:    uuid.NewString(),
		Logger:   rt.logger,
	}
}

// flushMetrics writes the textfile when metrics are enabled.
func (rt *runtime) flushMetrics() {
	if rt.prom == nil {
		return
	}
	if err := rt.prom.WriteTextfile(rt.cfg.Metrics.Textfile); err != nil {
		rt.logger.Warn("Failed to write metrics textfile", logfields.Path(rt.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

// outputDir resolves the output directory. Priority: CLI flag > config.
func (rt *runtime) outputDir(flag string) string {
	if flag != "" {
		return flag
	}
	return rt.cfg.Output.Directory
}

// outputBase names output files after the input file.
func outputBase(input string) (stem, ext string) {
	name := filepath.Base(input)
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = ".tsx"
	}
	return stem, ext
}

// writeOutput stores markup, stylesheet, props interface and generated
// assets below dir and returns the written paths.
func writeOutput(dir, stem, ext string, out *convert.Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", dir).
			Build()
	}
	files := map[string]string{stem + ext: out.Markup}
	if out.Stylesheet != "" {
		files[stem+".css"] = out.Stylesheet
	}
	if out.Interface != "" {
		files[stem+".props.ts"] = out.Interface
	}
	var written []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "write output").
				WithContext("path", p).
				Build()
		}
		written = append(written, p)
	}
	sink := assets.DirSink{Dir: dir}
	for p, data := range out.Assets {
		if err := sink.Write(p, data); err != nil {
			return written, errors.WrapError(err, errors.CategoryFileSystem, "write generated asset").
				WithContext("path", p).
				Build()
		}
		written = append(written, filepath.Join(dir, filepath.FromSlash(p)))
	}
	return written, nil
}

// writeReport stores v as indented JSON. An empty path is a no-op.
func writeReport(path string, v any) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write report").
			WithContext("path", path).
			Build()
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read input").
			WithContext("path", path).
			Build()
	}
	return data, nil
}
