// Package convert ties the markup parser, the transform pipeline and the
// stylesheet emitter together into single calls.
package convert

import (
	"log/slog"
	"maps"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/cssreg"
	"git.home.luguber.info/inful/designpipe/internal/cssvars"
	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/metadata"
	"git.home.luguber.info/inful/designpipe/internal/transforms"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// Options configure one conversion.
type Options struct {
	Pipeline transforms.Options
	Metadata *metadata.Index
	// Assets serves vector member assets. Nil disables consolidation.
	Assets   assets.Source
	AssetDir string
	Vector   vector.Options
	RunID    string
	Logger   *slog.Logger

	// Classes and GeneratedAssets are shared when several trees feed one
	// stylesheet. Nil means a fresh collection.
	Classes         *cssreg.Registry
	GeneratedAssets map[string][]byte
}

// Output is the emitted form of a converted tree.
type Output struct {
	Markup     string
	Stylesheet string
	// Interface is the typed props declaration of the exported component.
	Interface string
	Assets    map[string][]byte
	Report    *transforms.Report
	// Rewritten counts tokens the text safety net still had to resolve.
	Rewritten int
}

// Process parses src and converts it. A parse failure is fatal.
func Process(src []byte, opts Options) (*Output, error) {
	t, err := markup.ParseBytes(src)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "parse markup").Fatal().Build()
	}
	return ProcessTree(t, opts)
}

// ProcessTree runs the pipeline on t and emits it. When a pass failure stops
// the run, the partial report is returned alongside the error.
func ProcessTree(t *markup.Tree, opts Options) (*Output, error) {
	ctx := newContext(opts)
	report, err := transforms.Run(t, ctx, opts.Pipeline)
	if err != nil {
		if report == nil {
			return nil, err
		}
		return &Output{Report: report}, err
	}
	out := emit(t, ctx.Classes, ctx.Logger.With(logfields.RunID(ctx.RunID)))
	out.Report = report
	out.Assets = maps.Clone(ctx.GeneratedAssets)
	return out, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func newContext(opts Options) *transforms.Context {
	ctx := transforms.NewContext()
	if opts.RunID != "" {
		ctx.RunID = opts.RunID
	}
	if opts.Logger != nil {
		ctx.Logger = opts.Logger
	}
	if opts.Classes != nil {
		ctx.Classes = opts.Classes
	}
	if opts.GeneratedAssets != nil {
		ctx.GeneratedAssets = opts.GeneratedAssets
	}
	if opts.AssetDir != "" {
		ctx.AssetDir = opts.AssetDir
	}
	ctx.Metadata = opts.Metadata
	ctx.Assets = opts.Assets
	ctx.Vector = opts.Vector
	return ctx
}

// emit renders t, resolves any variable tokens the tree passes left behind
// and writes the stylesheet for reg.
func emit(t *markup.Tree, reg *cssreg.Registry, logger *slog.Logger) *Output {
	text, n := cssvars.RewriteText(markup.Render(t), reg)
	if n > 0 {
		logger.Warn("Safety net rewrote unresolved variable tokens", logfields.Count(n))
	}
	return &Output{
		Markup:     text,
		Stylesheet: reg.Stylesheet(),
		Interface:  transforms.PropsInterface(t.Exported()),
		Rewritten:  n,
	}
}
