package convert

import (
	"log/slog"
	"maps"

	"git.home.luguber.info/inful/designpipe/internal/cssreg"
	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/responsive"
	"git.home.luguber.info/inful/designpipe/internal/transforms"
)

// Sources holds the markup of one component at the three breakpoints.
type Sources struct {
	Desktop []byte
	Tablet  []byte
	Mobile  []byte
}

// MergeOptions configure a responsive merge.
type MergeOptions struct {
	Merge responsive.Options
	// Process, when set, runs the pipeline on every tree before merging.
	// The three runs share one class registry and one asset namespace.
	Process *Options
}

// MergeOutput is the emitted merged component.
type MergeOutput struct {
	Output
	Merge *responsive.Result
	// Reports holds the pipeline reports by breakpoint name.
	Reports map[string]*transforms.Report
}

// MergeSources parses, optionally processes and merges three sources.
func MergeSources(src Sources, opts MergeOptions) (*MergeOutput, error) {
	raw := [3][]byte{src.Desktop, src.Tablet, src.Mobile}
	var trees [3]*markup.Tree
	for i, data := range raw {
		bp := responsive.Breakpoint(i).String()
		t, err := markup.ParseBytes(data)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryParse, "parse markup").
				Fatal().
				WithContext("breakpoint", bp).
				Build()
		}
		trees[i] = t
	}
	return MergeTrees(trees[0], trees[1], trees[2], opts)
}

// MergeTrees optionally processes the three trees, merges them into desktop
// and emits the result.
func MergeTrees(desktop, tablet, mobile *markup.Tree, opts MergeOptions) (*MergeOutput, error) {
	out := &MergeOutput{Reports: map[string]*transforms.Report{}}
	reg := cssreg.New()
	generated := map[string][]byte{}

	if opts.Process != nil {
		base := *opts.Process
		if base.Classes != nil {
			reg = base.Classes
		}
		if base.GeneratedAssets != nil {
			generated = base.GeneratedAssets
		}
		base.Classes, base.GeneratedAssets = reg, generated
		if base.RunID == "" {
			base.RunID = opts.Merge.RunID
		}
		for i, t := range []*markup.Tree{desktop, tablet, mobile} {
			if t == nil {
				continue
			}
			bp := responsive.Breakpoint(i).String()
			run := base
			if base.Logger != nil {
				run.Logger = base.Logger.With(logfields.Breakpoint(bp))
			}
			ctx := newContext(run)
			report, err := transforms.Run(t, ctx, run.Pipeline)
			if report != nil {
				out.Reports[bp] = report
			}
			if err != nil {
				run.logger().Error("Pipeline failed before merge", logfields.Breakpoint(bp), logfields.Error(err))
				return out, err
			}
		}
	}

	res, err := responsive.Merge(desktop, tablet, mobile, opts.Merge)
	if err != nil {
		return out, err
	}
	logger := opts.Merge.Logger
	if logger == nil && opts.Process != nil {
		logger = opts.Process.Logger
	}
	if logger == nil {
		logger = slog.Default()
	}
	out.Output = *emit(res.Tree, reg, logger.With(logfields.RunID(res.RunID)))
	out.Assets = maps.Clone(generated)
	out.Merge = res
	return out, nil
}
