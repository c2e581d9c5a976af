package bot

import (
	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/perm"
)

// PermissionModerateMembers is the member timeout permission bit. Arikawa
// doesn't define it yet.
const PermissionModerateMembers discord.Permissions = 1 << 40

// capabilityBits maps each capability onto the Discord permission bits that
// grant it.
var capabilityBits = map[perm.Capability]discord.Permissions{
	perm.Administrator:   discord.PermissionAdministrator,
	perm.KickMembers:     discord.PermissionKickMembers,
	perm.BanMembers:      discord.PermissionBanMembers,
	perm.ManageMessages:  discord.PermissionManageMessages,
	perm.ManageChannels:  discord.PermissionManageChannels,
	perm.ManageGuild:     discord.PermissionManageGuild,
	perm.ModerateMembers: PermissionModerateMembers,
}

// capabilities translates a member's guild-level permissions into the
// capability space.
func capabilities(perms discord.Permissions) perm.Set {
	s := perm.NewSet()
	for c, bit := range capabilityBits {
		if perms.Has(bit) {
			s.Add(c)
		}
	}
	return s
}

// guildPerms computes a member's guild-level permissions by summing their
// role permissions. Channel overwrites are ignored; command gating works on
// guild-wide permissions only.
func (bot *Bot) guildPerms(guildID discord.GuildID, m discord.Member) (perms discord.Permissions, err error) {
	s, _ := bot.StateFromGuildID(guildID)

	g, err := s.Guild(guildID)
	if err != nil {
		return 0, errors.Wrap(err, "getting guild")
	}
	if g.OwnerID == m.User.ID {
		return discord.PermissionAll, nil
	}

	roles, err := s.Roles(guildID)
	if err != nil {
		return 0, errors.Wrap(err, "getting roles")
	}

	for _, r := range roles {
		// the @everyone role shares the guild's ID and applies to everyone
		applies := r.ID == discord.RoleID(guildID)
		for _, id := range m.RoleIDs {
			if r.ID == id {
				applies = true
				break
			}
		}
		if !applies {
			continue
		}

		if r.Permissions.Has(discord.PermissionAdministrator) {
			return discord.PermissionAll, nil
		}
		perms |= r.Permissions
	}
	return perms, nil
}
