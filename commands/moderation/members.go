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

// maxTimeout is Discord's limit on member timeouts.
const maxTimeout = 28 * 24 * time.Hour

func (bot *Bot) ban(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	reason := reasonOrDefault(inv)

	days := inv.Args.Int("delete-days")
	if days < 0 {
		days = 0
	} else if days > 7 {
		days = 7
	}

	// notify before the ban lands, while we can still DM them
	bot.maybeDM(s, inv, userID, guildID, "You were banned", "You were banned with reason: "+reason)

	err = s.Ban(guildID, userID, api.BanData{
		DeleteDays:     option.NewUint(uint(days)),
		AuditLogReason: api.AuditLogReason(reason),
	})
	if err != nil {
		return nil, errors.Wrap(err, "banning user")
	}

	return &command.Result{
		Content: fmt.Sprintf("Banned <@%v>. Reason: %v", userID, reason),
	}, nil
}

func (bot *Bot) unban(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	err = s.Unban(guildID, userID, api.AuditLogReason(reasonOrDefault(inv)))
	if err != nil {
		return nil, errors.Wrap(err, "unbanning user")
	}

	return &command.Result{
		Content: fmt.Sprintf("Unbanned <@%v>.", userID),
	}, nil
}

func (bot *Bot) kick(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	reason := reasonOrDefault(inv)

	bot.maybeDM(s, inv, userID, guildID, "You were kicked", "You were kicked with reason: "+reason)

	err = s.Kick(guildID, userID, api.AuditLogReason(reason))
	if err != nil {
		return nil, errors.Wrap(err, "kicking user")
	}

	return &command.Result{
		Content: fmt.Sprintf("Kicked <@%v>. Reason: %v", userID, reason),
	}, nil
}

func (bot *Bot) timeout(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	dur, err := time.ParseDuration(inv.Args.String("duration"))
	if err != nil {
		return &command.Result{
			Content:   fmt.Sprintf("Couldn't parse %q as a duration. Use something like `10m` or `1h`.", inv.Args.String("duration")),
			Ephemeral: true,
		}, nil
	}
	if dur <= 0 || dur > maxTimeout {
		return &command.Result{
			Content:   "Timeouts must be between one second and 28 days.",
			Ephemeral: true,
		}, nil
	}

	reason := reasonOrDefault(inv)

	until := discord.Timestamp(time.Now().UTC().Add(dur))
	err = s.ModifyMember(guildID, userID, api.ModifyMemberData{
		CommunicationDisabledUntil: &until,
		AuditLogReason:             api.AuditLogReason(reason),
	})
	if err != nil {
		return nil, errors.Wrap(err, "timing out user")
	}

	bot.maybeDM(s, inv, userID, guildID, "You were timed out",
		fmt.Sprintf("You were timed out for %v with reason: %v", dur, reason))

	return &command.Result{
		Content: fmt.Sprintf("Timed out <@%v> for %v. Reason: %v", userID, dur, reason),
	}, nil
}

func (bot *Bot) untimeout(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	reason := reasonOrDefault(inv)

	// an expiry that has already passed lifts the timeout; the field can't
	// carry an explicit null
	until := discord.Timestamp(time.Now().UTC())
	err = s.ModifyMember(guildID, userID, api.ModifyMemberData{
		CommunicationDisabledUntil: &until,
		AuditLogReason:             api.AuditLogReason(reason),
	})
	if err != nil {
		return nil, errors.Wrap(err, "removing timeout")
	}

	bot.maybeDM(s, inv, userID, guildID, "Your timeout was removed",
		"Your timeout was removed with reason: "+reason)

	return &command.Result{
		Content: fmt.Sprintf("Removed the timeout for <@%v>.", userID),
	}, nil
}

func (bot *Bot) warn(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	s, guildID, err := bot.guildState(inv)
	if err != nil {
		return nil, err
	}

	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	reason := reasonOrDefault(inv)

	count, err := bot.DB.AddWarning(ctx, inv.Actor.GuildID, userID.String(), inv.Actor.ID, reason)
	if err != nil {
		return nil, errors.Wrap(err, "storing warning")
	}

	bot.maybeDM(s, inv, userID, guildID, "You were warned", "You were warned with reason: "+reason)

	return &command.Result{
		Content: fmt.Sprintf("Warned <@%v>. Reason: %v (total warnings: %v)", userID, reason, count),
	}, nil
}

func (bot *Bot) warnings(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	userID, err := userArg(inv, "user")
	if err != nil {
		return nil, err
	}

	ws, err := bot.DB.Warnings(ctx, inv.Actor.GuildID, userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "getting warnings")
	}

	if len(ws) == 0 {
		return &command.Result{
			Content:   fmt.Sprintf("<@%v> has no warnings.", userID),
			Ephemeral: true,
		}, nil
	}

	content := fmt.Sprintf("<@%v> has %v warning(s):\n", userID, len(ws))
	for i, w := range ws {
		if i >= 10 {
			content += fmt.Sprintf("… and %v more", len(ws)-10)
			break
		}
		content += fmt.Sprintf("**#%v** <t:%v:R> by <@%v>: %v\n", w.ID, w.Time.Unix(), w.ModeratorID, w.Reason)
	}

	return &command.Result{Content: content, Ephemeral: true}, nil
}
