package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/designpipe/internal/convert"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
)

// TransformCmd implements the 'transform' command.
type TransformCmd struct {
	Input           string   `arg:"" type:"existingfile" help:"Markup file to transform"`
	Output          string   `short:"o" help:"Output directory (overrides output.directory)"`
	Metadata        string   `short:"m" type:"existingfile" help:"Node metadata file (YAML or JSON)"`
	Passes          []string `name:"passes" sep:"," help:"Run only these passes"`
	ContinueOnError bool     `name:"continue-on-error" help:"Record failing passes and keep going"`
	Report          string   `help:"Write the run report as JSON to this file"`
	Stdout          bool     `help:"Print the transformed markup instead of writing files"`
}

func (c *TransformCmd) Run(g *Global, root *CLI) error {
	rt, err := newRuntime(g, root, c.Metadata)
	if err != nil {
		return err
	}
	defer rt.flushMetrics()
	return rt.transformFile(c.Input, c.Output, c)
}

// transformFile converts one input and writes the results.
func (rt *runtime) transformFile(input, outFlag string, c *TransformCmd) error {
	src, err := readInput(input)
	if err != nil {
		return err
	}
	logger := rt.logger.With(logfields.Input(input))
	opts := rt.processOptions(c.Passes, c.ContinueOnError)
	out, err := convert.Process(src, opts)
	if out != nil && out.Report != nil {
		if rerr := writeReport(c.Report, out.Report); rerr != nil {
			logger.Warn("Failed to write report", logfields.Error(rerr))
		}
	}
	if err != nil {
		return err
	}

	for _, p := range out.Report.Failed() {
		logger.Warn("Pass failed", logfields.Pass(p.Name), slog.String("error", p.Error))
	}
	if c.Stdout {
		fmt.Print(out.Markup)
		return nil
	}

	dir := rt.outputDir(outFlag)
	stem, ext := outputBase(input)
	written, err := writeOutput(dir, stem, ext, out)
	if err != nil {
		return err
	}
	logger.Info("Transform complete",
		logfields.RunID(out.Report.RunID),
		logfields.Path(dir),
		logfields.Count(len(written)),
		slog.Bool("success", out.Report.Success()))
	return nil
}
