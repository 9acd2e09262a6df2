package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play an interactive training session"`
	Replay  ReplayCmd        `cmd:"" help:"Replay a scripted session and print the grades"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gto-trainer"),
		kong.Description("Heads-up no-limit hold'em decision trainer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
