package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gitp4setup/cmd/gitp4setup/commands"
	"git.home.luguber.info/inful/gitp4setup/internal/version"
)

func main() {
	var cli commands.CLI
	kong.Parse(&cli,
		kong.Name("gitp4setup"),
		kong.Description("CLI tool for creating git-p4 workspaces."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, commands.Env{})
	stop()
	os.Exit(code)
}
