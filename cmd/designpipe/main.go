package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/designpipe/cmd/designpipe/commands"
	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("designpipe"),
		kong.Description("Clean up design-tool markup and merge responsive variants."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	err := ctx.Run(&commands.Global{}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
