package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/esgboard/cmd/esgboard/commands"
	"git.home.luguber.info/inful/esgboard/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("esgboard"),
		kong.Description("ESG monitoring dashboard service"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
