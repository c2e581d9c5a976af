// Package meta implements the bot's info commands.
package meta

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common/log"
)

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding meta commands")

	bot := &Bot{Bot: root}

	bot.Register(command.Definition{
		Name:    "warden/help",
		Summary: "Show all commands",
		Public:  true,
		Exec:    bot.help,
	}, api.CreateCommandData{
		Name:        "warden",
		Description: "Info about the bot",
		Options: discord.CommandOptions{
			&discord.SubcommandOption{OptionName: "help", Description: "Show all commands"},
			&discord.SubcommandOption{OptionName: "ping", Description: "Check if the bot is alive"},
			&discord.SubcommandOption{OptionName: "invite", Description: "Get an invite link for the bot"},
			&discord.SubcommandOption{OptionName: "stats", Description: "Show runtime statistics"},
		},
	})

	bot.Register(command.Definition{
		Name:    "warden/ping",
		Summary: "Check if the bot is alive",
		Public:  true,
		Exec:    bot.ping,
	})

	bot.Register(command.Definition{
		Name:    "warden/invite",
		Summary: "Get an invite link for the bot",
		Public:  true,
		Exec:    bot.invite,
	})

	bot.Register(command.Definition{
		Name:    "warden/stats",
		Summary: "Show runtime statistics",
		Public:  true,
		Exec:    bot.stats,
	})
}
