package cmd

import (
	"os"

	"github.com/starshine-sys/warden/cmd/bot"
	"github.com/starshine-sys/warden/cmd/migrate"
	"github.com/starshine-sys/warden/common"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:    "Warden",
	Usage:   "Discord moderation bot",
	Version: common.Version(),

	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
