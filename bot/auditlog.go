package bot

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/audit"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/store"
)

var _ audit.Sink = (*ChannelSink)(nil)

// ChannelSink mirrors audit records to the guild's configured log channel as
// embeds. Guilds opt out with the audit-to-channel toggle.
type ChannelSink struct {
	bot *Bot
}

func (c *ChannelSink) Record(ctx context.Context, rec audit.Record) error {
	if rec.GuildID == "" {
		return nil
	}

	cfg, err := c.bot.Store.Get(ctx, rec.GuildID)
	if err != nil {
		return errors.Wrap(err, "getting config")
	}
	if !cfg.Toggle(store.ToggleAuditToChannel) || cfg.LogChannel == "" {
		return nil
	}

	sf, err := discord.ParseSnowflake(cfg.LogChannel)
	if err != nil {
		return errors.Wrap(err, "parsing log channel")
	}

	guildID, err := discord.ParseSnowflake(rec.GuildID)
	if err != nil {
		return errors.Wrap(err, "parsing guild id")
	}

	colour := common.ColourGreen
	switch rec.Outcome {
	case audit.OutcomeDenied:
		colour = common.ColourOrange
	case audit.OutcomeError:
		colour = common.ColourRed
	}

	desc := fmt.Sprintf("**Command:** %v\n**Moderator:** <@%v>\n**Outcome:** %v", rec.Command, rec.ActorID, rec.Outcome)
	if rec.Reason != "" {
		desc += "\n**Reason:** " + rec.Reason
	}

	s, _ := c.bot.StateFromGuildID(discord.GuildID(guildID))
	_, err = s.SendEmbeds(discord.ChannelID(sf), discord.Embed{
		Title:       "Command invoked",
		Description: desc,
		Color:       colour,
		Timestamp:   discord.Timestamp(rec.Time),
		Footer:      &discord.EmbedFooter{Text: rec.ID.String()},
	})
	return errors.Wrap(err, "sending log message")
}
