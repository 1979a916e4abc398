package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"pokerd.hcl" help:"Path to HCL configuration file"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the table server"`
	Deposit DepositCmd `cmd:"" help:"Add funds to an account"`
	Account AccountCmd `cmd:"" help:"Show an account's balance, stats and recent transactions"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerd"),
		kong.Description("Multiplayer Texas Hold'em table server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
