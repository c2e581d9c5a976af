package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
)

// ReportError reports err to Sentry (when configured) and answers the
// already-deferred interaction with an error embed carrying the event ID.
func (bot *Bot) ReportError(ev *discord.InteractionEvent, err error, deferredEphemeral bool) {
	if bot.Config.Auth.Sentry == "" {
		rErr := bot.respond(ev, api.InteractionResponseData{
			Embeds: &[]discord.Embed{{
				Title: "Internal error occurred",
				Description: fmt.Sprintf("An internal error has occurred. "+
					"If this issue persists, please contact the developer "+
					"in the [support server](%v).", bot.Config.Info.SupportServer),
				Color:     common.ColourRed,
				Timestamp: discord.NowTimestamp(),
			}},
			Flags: discord.EphemeralMessage,
		}, deferredEphemeral)
		if rErr != nil {
			log.Errorf("responding with error embed: %v", rErr)
		}
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if ev.SenderID().IsValid() {
			scope.SetUser(sentry.User{ID: ev.SenderID().String()})
		}
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Data: map[string]any{
			"user":  ev.SenderID(),
			"guild": ev.GuildID,
		},
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	id := hub.CaptureException(err)
	if id == nil {
		uid := uuid.New().String()
		id = (*sentry.EventID)(&uid)
	}

	rErr := bot.respond(ev, api.InteractionResponseData{
		Embeds: &[]discord.Embed{{
			Title: "Internal error occurred",
			Description: fmt.Sprintf("An internal error has occurred. "+
				"If this issue persists, please contact the developer "+
				"in the [support server](%v) with the error code above.", bot.Config.Info.SupportServer),
			Color:     common.ColourRed,
			Timestamp: discord.NowTimestamp(),
			Footer: &discord.EmbedFooter{
				Text: string(*id),
			},
		}},
		Flags: discord.EphemeralMessage,
	}, deferredEphemeral)
	if rErr != nil {
		log.Errorf("responding with error embed: %v", rErr)
	}
}
