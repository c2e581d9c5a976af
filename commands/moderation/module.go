// Package moderation implements the member and channel moderation commands.
package moderation

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/perm"
)

type Bot struct {
	*bot.Bot
}

var moderateMembers = discord.NewPermissions(bot.PermissionModerateMembers)

func Setup(root *bot.Bot) {
	log.Debug("Adding moderation commands")

	bot := &Bot{Bot: root}

	bot.Register(command.Definition{
		Name:        "ban",
		Summary:     "Ban a member from the server",
		Require:     perm.NewSet(perm.BanMembers),
		GuildScoped: true,
		Exec:        bot.ban,
	}, api.CreateCommandData{
		Name:                     "ban",
		Description:              "Ban a member from the server",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionBanMembers),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to ban", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for the ban"},
			&discord.IntegerOption{OptionName: "delete-days", Description: "Days of messages to delete (0-7)"},
		},
	})

	bot.Register(command.Definition{
		Name:        "unban",
		Summary:     "Unban a user from the server",
		Require:     perm.NewSet(perm.BanMembers),
		GuildScoped: true,
		Exec:        bot.unban,
	}, api.CreateCommandData{
		Name:                     "unban",
		Description:              "Unban a user from the server",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionBanMembers),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The user to unban", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for the unban"},
		},
	})

	bot.Register(command.Definition{
		Name:        "kick",
		Summary:     "Kick a member from the server",
		Require:     perm.NewSet(perm.KickMembers),
		GuildScoped: true,
		Exec:        bot.kick,
	}, api.CreateCommandData{
		Name:                     "kick",
		Description:              "Kick a member from the server",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionKickMembers),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to kick", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for the kick"},
		},
	})

	bot.Register(command.Definition{
		Name:        "timeout",
		Summary:     "Time out a member",
		Require:     perm.NewSet(perm.ModerateMembers),
		GuildScoped: true,
		Exec:        bot.timeout,
	}, api.CreateCommandData{
		Name:                     "timeout",
		Description:              "Time out a member",
		DefaultMemberPermissions: moderateMembers,
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to time out", Required: true},
			&discord.StringOption{OptionName: "duration", Description: "How long, such as 10m or 1h (max 28 days)", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for the timeout"},
		},
	})

	bot.Register(command.Definition{
		Name:        "untimeout",
		Summary:     "Remove a member's timeout",
		Require:     perm.NewSet(perm.ModerateMembers),
		GuildScoped: true,
		Exec:        bot.untimeout,
	}, api.CreateCommandData{
		Name:                     "untimeout",
		Description:              "Remove a member's timeout",
		DefaultMemberPermissions: moderateMembers,
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to remove the timeout for", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for removing the timeout"},
		},
	})

	bot.Register(command.Definition{
		Name:        "warn",
		Summary:     "Warn a member",
		Require:     perm.NewSet(perm.ModerateMembers),
		GuildScoped: true,
		Exec:        bot.warn,
	}, api.CreateCommandData{
		Name:                     "warn",
		Description:              "Warn a member",
		DefaultMemberPermissions: moderateMembers,
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to warn", Required: true},
			&discord.StringOption{OptionName: "reason", Description: "Reason for the warning"},
		},
	})

	bot.Register(command.Definition{
		Name:        "warnings",
		Summary:     "List a member's warnings",
		Require:     perm.NewSet(perm.ModerateMembers),
		GuildScoped: true,
		Exec:        bot.warnings,
	}, api.CreateCommandData{
		Name:                     "warnings",
		Description:              "List a member's warnings",
		DefaultMemberPermissions: moderateMembers,
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.UserOption{OptionName: "user", Description: "The member to look up", Required: true},
		},
	})

	bot.Register(command.Definition{
		Name:        "purge",
		Summary:     "Delete multiple messages",
		Require:     perm.NewSet(perm.ManageMessages),
		GuildScoped: true,
		Exec:        bot.purge,
	}, api.CreateCommandData{
		Name:                     "purge",
		Description:              "Delete multiple messages",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageMessages),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.IntegerOption{OptionName: "amount", Description: "How many messages to delete (1-100)", Required: true},
		},
	})

	bot.Register(command.Definition{
		Name:        "slowmode",
		Summary:     "Set a channel's slowmode delay",
		Require:     perm.NewSet(perm.ManageChannels),
		GuildScoped: true,
		Exec:        bot.slowmode,
	}, api.CreateCommandData{
		Name:                     "slowmode",
		Description:              "Set a channel's slowmode delay",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageChannels),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.IntegerOption{OptionName: "seconds", Description: "Slowmode delay in seconds (0-21600)", Required: true},
			&discord.ChannelOption{OptionName: "channel", Description: "Channel to modify, defaults to the current one"},
		},
	})

	bot.Register(command.Definition{
		Name:        "lockdown",
		Summary:     "Lock or unlock a channel",
		Require:     perm.NewSet(perm.ManageChannels),
		GuildScoped: true,
		Exec:        bot.lockdown,
	}, api.CreateCommandData{
		Name:                     "lockdown",
		Description:              "Lock or unlock a channel",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionManageChannels),
		NoDMPermission:           true,
		Options: discord.CommandOptions{
			&discord.BooleanOption{OptionName: "lift", Description: "Unlock the channel instead of locking it"},
			&discord.ChannelOption{OptionName: "channel", Description: "Channel to modify, defaults to the current one"},
		},
	})
}
