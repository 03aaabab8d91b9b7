package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/fitsdoc/cmd/fitsdoc/commands"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/fitsdoc/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("fitsdoc"),
		kong.Description("Generate reference documentation stubs from FITS file metadata."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal()
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
