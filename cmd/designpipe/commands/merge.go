package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/designpipe/internal/convert"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/responsive"
	"git.home.luguber.info/inful/designpipe/internal/transforms"
)

// MergeCmd implements the 'merge' command.
type MergeCmd struct {
	Desktop   string `required:"" type:"existingfile" help:"Desktop variant markup"`
	Tablet    string `required:"" type:"existingfile" help:"Tablet variant markup"`
	Mobile    string `required:"" type:"existingfile" help:"Mobile variant markup"`
	Output    string `short:"o" help:"Output directory (overrides output.directory)"`
	Name      string `help:"Output file stem (defaults to the desktop file name)"`
	Transform bool   `help:"Run the transform pipeline on each variant before merging"`
	Metadata  string `short:"m" type:"existingfile" help:"Node metadata file (YAML or JSON)"`
	Report    string `help:"Write the merge report as JSON to this file"`
}

type mergeReport struct {
	Merge     *responsive.Result            `json:"merge,omitempty"`
	Pipelines map[string]*transforms.Report `json:"pipelines,omitempty"`
}

func (c *MergeCmd) Run(g *Global, root *CLI) error {
	rt, err := newRuntime(g, root, c.Metadata)
	if err != nil {
		return err
	}
	defer rt.flushMetrics()

	var src convert.Sources
	for _, f := range []struct {
		path string
		dst  *[]byte
	}{{c.Desktop, &src.Desktop}, {c.Tablet, &src.Tablet}, {c.Mobile, &src.Mobile}} {
		if *f.dst, err = readInput(f.path); err != nil {
			return err
		}
	}

	opts := convert.MergeOptions{Merge: rt.cfg.MergeOptions(rt.logger, rt.recorder)}
	if c.Transform {
		po := rt.processOptions(nil, false)
		opts.Process = &po
		opts.Merge.RunID = po.RunID
	}
	out, err := convert.MergeSources(src, opts)
	if out != nil {
		if rerr := writeReport(c.Report, mergeReport{Merge: out.Merge, Pipelines: out.Reports}); rerr != nil {
			rt.logger.Warn("Failed to write report", logfields.Error(rerr))
		}
	}
	if err != nil {
		return err
	}

	stem, ext := outputBase(c.Desktop)
	if c.Name != "" {
		stem = c.Name
	}
	dir := rt.outputDir(c.Output)
	written, err := writeOutput(dir, stem, ext, &out.Output)
	if err != nil {
		return err
	}
	rt.logger.Info("Merge complete",
		logfields.RunID(out.Merge.RunID),
		logfields.Path(dir),
		logfields.Count(len(written)),
		slog.Int("overrides", out.Merge.Overrides),
		slog.Int("conflicts", len(out.Merge.Conflicts)))
	return nil
}
