package moderation

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/starshine-sys/warden/command"
)

const maxSlowmode = 21600 // Discord's limit, in seconds

func (bot *Bot) purge(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, _, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	channelID, err := channelArg(inv)
	if err != nil {
		return nil, err
	}

	amount := inv.Args.Int("amount")
	if amount < 1 {
		amount = 1
	} else if amount > 100 {
		amount = 100
	}

	msgs, err := s.Messages(channelID, uint(amount))
	if err != nil {
		return nil, errors.Wrap(err, "getting messages")
	}

	// bulk deletion only works on messages younger than two weeks
	cutoff := time.Now().Add(-14 * 24 * time.Hour)

	var ids []discord.MessageID
	for _, m := range msgs {
		if m.ID.Time().After(cutoff) {
			ids = append(ids, m.ID)
		}
	}

	reason := api.AuditLogReason(fmt.Sprintf("Purge by %v", inv.Actor.ID))

	switch len(ids) {
	case 0:
		return &command.Result{
			Content:   "There's nothing recent enough to delete.",
			Ephemeral: true,
		}, nil
	case 1:
		if err := s.DeleteMessage(channelID, ids[0], reason); err != nil {
			return nil, errors.Wrap(err, "deleting message")
		}
	default:
		if err := s.DeleteMessages(channelID, ids, reason); err != nil {
			return nil, errors.Wrap(err, "deleting messages")
		}
	}

	return &command.Result{
		Content:   fmt.Sprintf("Deleted %v messages.", len(ids)),
		Ephemeral: true,
	}, nil
}

func (bot *Bot) slowmode(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, _, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	channelID, err := channelArg(inv)
	if err != nil {
		return nil, err
	}

	seconds := inv.Args.Int("seconds")
	if seconds < 0 {
		seconds = 0
	} else if seconds > maxSlowmode {
		seconds = maxSlowmode
	}

	err = s.ModifyChannel(channelID, api.ModifyChannelData{
		UserRateLimit:  option.NewNullableUint(uint(seconds)),
		AuditLogReason: api.AuditLogReason(fmt.Sprintf("Slowmode changed by %v", inv.Actor.ID)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "modifying channel")
	}

	if seconds == 0 {
		return &command.Result{Content: fmt.Sprintf("Disabled slowmode in <#%v>.", channelID)}, nil
	}
	return &command.Result{
		Content: fmt.Sprintf("Set slowmode in <#%v> to %v seconds.", channelID, seconds),
	}, nil
}

func (bot *Bot) lockdown(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	channelID, err := channelArg(inv)
	if err != nil {
		return nil, err
	}

	ch, err := s.Channel(channelID)
	if err != nil {
		return nil, errors.Wrap(err, "getting channel")
	}

	lift := inv.Args.Bool("lift")

	// the @everyone overwrite shares the guild's ID
	everyone := discord.Snowflake(guildID)

	overwrites := make([]discord.Overwrite, len(ch.Overwrites))
	copy(overwrites, ch.Overwrites)

	found := false
	for i := range overwrites {
		if overwrites[i].ID != everyone {
			continue
		}

		found = true
		if lift {
			overwrites[i].Deny &^= discord.PermissionSendMessages
		} else {
			overwrites[i].Allow &^= discord.PermissionSendMessages
			overwrites[i].Deny |= discord.PermissionSendMessages
		}
	}
	if !found && !lift {
		overwrites = append(overwrites, discord.Overwrite{
			ID:   everyone,
			Type: discord.OverwriteRole,
			Deny: discord.PermissionSendMessages,
		})
	}

	action := "Lockdown"
	if lift {
		action = "Lockdown lifted"
	}

	err = s.ModifyChannel(channelID, api.ModifyChannelData{
		Permissions:    &overwrites,
		AuditLogReason: api.AuditLogReason(fmt.Sprintf("%v by %v", action, inv.Actor.ID)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "modifying channel")
	}

	if lift {
		return &command.Result{Content: fmt.Sprintf("🔓 Unlocked <#%v>.", channelID)}, nil
	}
	return &command.Result{Content: fmt.Sprintf("🔒 Locked <#%v>. Members can no longer send messages.", channelID)}, nil
}
