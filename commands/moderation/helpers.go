package moderation

import (
	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/store"
)

// guildState resolves the invoking guild's shard state.
func (bot *Bot) guildState(inv *command.Invocation) (*state.State, discord.GuildID, error) {
	sf, err := discord.ParseSnowflake(inv.Actor.GuildID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "parsing guild id")
	}

	s, _ := bot.StateFromGuildID(discord.GuildID(sf))
	return s, discord.GuildID(sf), nil
}

func userArg(inv *command.Invocation, name string) (discord.UserID, error) {
	sf, err := discord.ParseSnowflake(inv.Args.String(name))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %v argument", name)
	}
	return discord.UserID(sf), nil
}

func channelArg(inv *command.Invocation) (discord.ChannelID, error) {
	sf, err := discord.ParseSnowflake(inv.Args.String("channel"))
	if err != nil {
		return 0, errors.Wrap(err, "parsing channel argument")
	}
	return discord.ChannelID(sf), nil
}

func reasonOrDefault(inv *command.Invocation) string {
	if r := inv.Args.String("reason"); r != "" {
		return r
	}
	return "No reason provided"
}

// maybeDM notifies the target of a moderation action, if the guild's
// dm-on-action toggle is on. Failures (closed DMs, left guild) are only
// logged; the action itself proceeds regardless.
func (bot *Bot) maybeDM(s *state.State, inv *command.Invocation, userID discord.UserID, guildID discord.GuildID, title, desc string) {
	if !inv.Config.Toggle(store.ToggleDMOnAction) {
		return
	}

	name := inv.Actor.GuildID
	if g, err := s.Guild(guildID); err == nil {
		name = g.Name
	}

	ch, err := s.CreatePrivateChannel(userID)
	if err != nil {
		log.Debugf("opening DM channel with %v: %v", userID, err)
		return
	}

	_, err = s.SendEmbeds(ch.ID, discord.Embed{
		Title:       title,
		Description: desc + " in **" + name + "**",
		Color:       common.ColourOrange,
		Timestamp:   discord.NowTimestamp(),
	})
	if err != nil {
		log.Debugf("notifying %v: %v", userID, err)
	}
}
