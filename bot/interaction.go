package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/dispatch"
	"github.com/starshine-sys/warden/store"
)

func (bot *Bot) interactionCreate(ev *gateway.InteractionCreateEvent) {
	data, ok := ev.Data.(*discord.CommandInteraction)
	if !ok {
		return
	}

	name, args := flattenOptions(data.Name, data.Options)

	// acknowledge inside Discord's three-second window; the handler budget
	// is far longer than the interaction token allows for an initial response
	deferredEphemeral := bot.deferEphemeral(name)
	if err := bot.deferResponse(&ev.InteractionEvent, deferredEphemeral); err != nil {
		log.Errorf("deferring response to interaction %v: %v", ev.ID, err)
		return
	}

	inv, err := bot.invocation(&ev.InteractionEvent, name, args)
	if err != nil {
		log.Errorf("building invocation for interaction %v: %v", ev.ID, err)
		bot.ReportError(&ev.InteractionEvent, err, deferredEphemeral)
		return
	}

	res, err := bot.Dispatcher.Dispatch(context.Background(), inv)
	switch {
	case err == nil:
		if err := bot.respondResult(&ev.InteractionEvent, res, deferredEphemeral); err != nil {
			log.Errorf("responding to interaction %v: %v", ev.ID, err)
		}
	case errors.Is(err, dispatch.ErrUnknownCommand):
		// nothing registered for this slash command; stay quiet beyond an
		// ephemeral note so stale commands don't look broken
		_ = bot.respond(&ev.InteractionEvent, api.InteractionResponseData{
			Content: option.NewNullableString("That command doesn't exist anymore."),
			Flags:   discord.EphemeralMessage,
		}, deferredEphemeral)
	default:
		var denied *dispatch.DeniedError
		if errors.As(err, &denied) {
			if err := bot.respondDenied(&ev.InteractionEvent, inv, denied, deferredEphemeral); err != nil {
				log.Errorf("responding to interaction %v: %v", ev.ID, err)
			}
			return
		}

		log.Errorf("dispatching %v: %v", inv.Command, err)
		bot.ReportError(&ev.InteractionEvent, err, deferredEphemeral)
	}
}

// deferEphemeral decides the visibility of the deferred acknowledgement.
// Public info commands and unknown-command notices answer ephemerally;
// everything else is a moderation action whose result should be visible.
func (bot *Bot) deferEphemeral(name string) bool {
	def, err := bot.Commands.Load().Lookup(name)
	if err != nil {
		return true
	}
	return def.Public
}

func (bot *Bot) deferResponse(ev *discord.InteractionEvent, ephemeral bool) error {
	s, _ := bot.StateFromGuildID(ev.GuildID)

	resp := api.InteractionResponse{Type: api.DeferredMessageInteractionWithSource}
	if ephemeral {
		resp.Data = &api.InteractionResponseData{Flags: discord.EphemeralMessage}
	}
	return s.RespondInteraction(ev.ID, ev.Token, resp)
}

// invocation translates a command interaction into a dispatcher invocation.
func (bot *Bot) invocation(ev *discord.InteractionEvent, name string, args command.Args) (*command.Invocation, error) {
	inv := &command.Invocation{
		Command: name,
		Args:    args,
		Actor: command.Actor{
			ID: ev.SenderID().String(),
		},
	}

	// handlers acting on a channel default to the invoking one
	if _, ok := args["channel"]; !ok && ev.ChannelID.IsValid() {
		args["channel"] = ev.ChannelID.String()
	}

	if !ev.GuildID.IsValid() || ev.Member == nil {
		return inv, nil
	}

	inv.Actor.GuildID = ev.GuildID.String()
	for _, id := range ev.Member.RoleIDs {
		inv.Actor.Roles = append(inv.Actor.Roles, id.String())
	}

	perms, err := bot.guildPerms(ev.GuildID, *ev.Member)
	if err != nil {
		return nil, errors.Wrap(err, "computing permissions")
	}
	inv.Actor.Granted = capabilities(perms)

	s, _ := bot.StateFromGuildID(ev.GuildID)
	g, err := s.Guild(ev.GuildID)
	if err != nil {
		return nil, errors.Wrap(err, "getting guild")
	}
	inv.Actor.IsGuildOwner = g.OwnerID == ev.Member.User.ID

	return inv, nil
}

// flattenOptions resolves subcommand groups into a slash-separated command
// name and collects leaf options into the argument map.
func flattenOptions(name string, opts discord.CommandInteractionOptions) (string, command.Args) {
	args := command.Args{}

	for len(opts) == 1 && (opts[0].Type == discord.SubcommandOptionType || opts[0].Type == discord.SubcommandGroupOptionType) {
		name += "/" + opts[0].Name
		opts = opts[0].Options
	}

	for _, opt := range opts {
		switch opt.Type {
		case discord.IntegerOptionType:
			v, err := opt.IntValue()
			if err != nil {
				continue
			}
			args[opt.Name] = v
		case discord.BooleanOptionType:
			v, err := opt.BoolValue()
			if err != nil {
				continue
			}
			args[opt.Name] = v
		case discord.UserOptionType, discord.ChannelOptionType,
			discord.RoleOptionType, discord.MentionableOptionType:
			v, err := opt.SnowflakeValue()
			if err != nil {
				continue
			}
			args[opt.Name] = v.String()
		case discord.NumberOptionType:
			v, err := opt.FloatValue()
			if err != nil {
				continue
			}
			args[opt.Name] = v
		default:
			args[opt.Name] = opt.String()
		}
	}
	return name, args
}

func (bot *Bot) respondResult(ev *discord.InteractionEvent, res *command.Result, deferredEphemeral bool) error {
	if res == nil || res.Content == "" {
		return bot.respond(ev, api.InteractionResponseData{
			Content: option.NewNullableString("Done!"),
			Flags:   discord.EphemeralMessage,
		}, deferredEphemeral)
	}

	data := api.InteractionResponseData{
		Content: option.NewNullableString(res.Content),
	}
	if res.Ephemeral {
		data.Flags = discord.EphemeralMessage
	}
	return bot.respond(ev, data, deferredEphemeral)
}

func (bot *Bot) respondDenied(ev *discord.InteractionEvent, inv *command.Invocation, denied *dispatch.DeniedError, deferredEphemeral bool) error {
	desc := "You don't have permission to use this command."
	if len(denied.Missing) > 0 {
		missing := make([]string, len(denied.Missing))
		for i, c := range denied.Missing {
			missing[i] = fmt.Sprintf("`%v`", c)
		}
		desc = fmt.Sprintf("You don't have permission to use this command. (missing: %v)", strings.Join(missing, ", "))
	}

	data := api.InteractionResponseData{
		Embeds: &[]discord.Embed{{
			Title:       "Permission denied",
			Description: desc,
			Color:       common.ColourRed,
			Timestamp:   discord.NowTimestamp(),
		}},
	}

	// ephemeral denials are the default; guilds can make them public
	if bot.deniedEphemeral(inv) {
		data.Flags = discord.EphemeralMessage
	}
	return bot.respond(ev, data, deferredEphemeral)
}

func (bot *Bot) deniedEphemeral(inv *command.Invocation) bool {
	if inv.Actor.GuildID == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg, err := bot.Store.Get(ctx, inv.Actor.GuildID)
	if err != nil {
		return true
	}
	return cfg.Toggle(store.ToggleEphemeralDeny)
}

// respond delivers the final response for an already-deferred interaction.
// When the response visibility matches the acknowledgement, the placeholder
// is edited in place; otherwise it is replaced by a followup carrying the
// right flags.
func (bot *Bot) respond(ev *discord.InteractionEvent, data api.InteractionResponseData, deferredEphemeral bool) error {
	s, _ := bot.StateFromGuildID(ev.GuildID)

	ephemeral := data.Flags&discord.EphemeralMessage != 0
	if ephemeral == deferredEphemeral {
		_, err := s.EditInteractionResponse(ev.AppID, ev.Token, api.EditInteractionResponseData{
			Content: data.Content,
			Embeds:  data.Embeds,
		})
		return err
	}

	if err := s.DeleteInteractionResponse(ev.AppID, ev.Token); err != nil {
		log.Debugf("deleting deferred response: %v", err)
	}
	_, err := s.CreateInteractionFollowup(ev.AppID, ev.Token, data)
	return err
}
