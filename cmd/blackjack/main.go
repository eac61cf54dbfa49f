package main

import (
	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack at the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play agent-only sessions and print win rates"`
	Snapshot SnapshotCmd      `cmd:"" help:"Inspect or clear the saved game"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Turn-based blackjack against agent or human opponents"),
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
