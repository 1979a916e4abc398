package main

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	URL     string `default:"ws://localhost:8080/ws" env:"POKER_URL" help:"Server websocket URL"`
	Account string `short:"u" env:"POKER_ACCOUNT" help:"Account id (when the server does not check tokens)"`
	Name    string `help:"Display name"`
	Token   string `env:"POKER_TOKEN" help:"Auth token"`
	NoColor bool   `help:"Disable colour output"`

	Tables TablesCmd `cmd:"" help:"List tables"`
	Join   JoinCmd   `cmd:"" help:"Join a table"`
	Leave  LeaveCmd  `cmd:"" help:"Leave a table and cash out"`
	Stack  StackCmd  `cmd:"" help:"Set your table stack (buy in or cash out)"`
	Start  StartCmd  `cmd:"" help:"Start a hand (table creator only)"`
	Act    ActCmd    `cmd:"" help:"Fold, check, call or raise"`
	State  StateCmd  `cmd:"" help:"Show your view of a table"`
	Watch  WatchCmd  `cmd:"" help:"Follow a table until interrupted"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerctl"),
		kong.Description("Command line client for pokerd"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
