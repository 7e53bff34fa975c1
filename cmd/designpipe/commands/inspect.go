package commands

import (
	"fmt"

	"git.home.luguber.info/inful/designpipe/internal/convert"
	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Input    string `arg:"" type:"existingfile" help:"Markup file to inspect"`
	After    bool   `help:"Show the tree after running the pipeline"`
	Metadata string `short:"m" type:"existingfile" help:"Node metadata file (YAML or JSON), used with --after"`
}

func (c *InspectCmd) Run(g *Global, root *CLI) error {
	src, err := readInput(c.Input)
	if err != nil {
		return err
	}
	t, err := markup.ParseBytes(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryParse, "parse markup").
			WithContext("path", c.Input).
			Build()
	}
	if c.After {
		rt, err := newRuntime(g, root, c.Metadata)
		if err != nil {
			return err
		}
		defer rt.flushMetrics()
		if _, err := convert.ProcessTree(t, rt.processOptions(nil, true)); err != nil {
			return err
		}
	}
	fmt.Print(markup.Dump(t))
	return nil
}
