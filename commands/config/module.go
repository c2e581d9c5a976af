// Package config implements the commands that manage per-guild
// configuration: capability overrides, feature toggles, and the audit log
// channel.
package config

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding configuration commands")

	bot := &Bot{Bot: root}

	toggleChoices := make([]discord.StringChoice, 0, len(store.Toggles()))
	for _, t := range store.Toggles() {
		toggleChoices = append(toggleChoices, discord.StringChoice{Name: t, Value: t})
	}

	bot.Register(command.Definition{
		Name:        "config/override/set",
		Summary:     "Grant extra capabilities to a role",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.overrideSet,
	}, api.CreateCommandData{
		Name:                     "config",
		Description:              "Manage this server's configuration",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageGuild),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.SubcommandGroupOption{
				OptionName:  "override",
				Description: "Manage role capability overrides",
				Subcommands: []*discord.SubcommandOption{
					{
						OptionName:  "set",
						Description: "Grant extra capabilities to a role",
						Options: []discord.CommandOptionValue{
							&discord.RoleOption{OptionName: "role", Description: "The role to grant capabilities to", Required: true},
							&discord.StringOption{OptionName: "capabilities", Description: "Comma-separated list of capabilities", Required: true},
						},
					},
					{
						OptionName:  "clear",
						Description: "Remove a role's capability override",
						Options: []discord.CommandOptionValue{
							&discord.RoleOption{OptionName: "role", Description: "The role to clear", Required: true},
						},
					},
					{
						OptionName:  "list",
						Description: "List this server's capability overrides",
					},
				},
			},
			&discord.SubcommandGroupOption{
				OptionName:  "logchannel",
				Description: "Manage the audit log channel",
				Subcommands: []*discord.SubcommandOption{
					{
						OptionName:  "set",
						Description: "Mirror audit records to a channel",
						Options: []discord.CommandOptionValue{
							&discord.ChannelOption{OptionName: "channel", Description: "The channel to mirror audit records to", Required: true},
						},
					},
					{
						OptionName:  "clear",
						Description: "Stop mirroring audit records",
					},
				},
			},
			&discord.SubcommandOption{
				OptionName:  "toggle",
				Description: "Turn a feature toggle on or off",
				Options: []discord.CommandOptionValue{
					&discord.StringOption{OptionName: "name", Description: "The toggle to change", Required: true, Choices: toggleChoices},
					&discord.BooleanOption{OptionName: "value", Description: "The new state", Required: true},
				},
			},
		},
	})

	bot.Register(command.Definition{
		Name:        "config/override/clear",
		Summary:     "Remove a role's capability override",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.overrideClear,
	})

	bot.Register(command.Definition{
		Name:        "config/override/list",
		Summary:     "List this server's capability overrides",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.overrideList,
	})

	bot.Register(command.Definition{
		Name:        "config/logchannel/set",
		Summary:     "Mirror audit records to a channel",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.logChannelSet,
	})

	bot.Register(command.Definition{
		Name:        "config/logchannel/clear",
		Summary:     "Stop mirroring audit records",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.logChannelClear,
	})

	bot.Register(command.Definition{
		Name:        "config/toggle",
		Summary:     "Turn a feature toggle on or off",
		Require:     perm.NewSet(perm.ManageGuild),
		GuildScoped: true,
		Exec:        bot.toggle,
	})
}
