package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

func (bot *Bot) overrideSet(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	roleID := inv.Args.String("role")
	if roleID == "" {
		return &command.Result{Content: "I need a role to set an override for.", Ephemeral: true}, nil
	}

	caps := perm.NewSet()
	for _, raw := range strings.Split(inv.Args.String("capabilities"), ",") {
		c := perm.Capability(strings.ToLower(strings.TrimSpace(raw)))
		if c == "" {
			continue
		}
		if !perm.Known(c) {
			return &command.Result{
				Content: fmt.Sprintf(
					"``%v`` isn't a capability I know about. Valid capabilities: %v",
					c, strings.Join(perm.All.Strings(), ", "),
				),
				Ephemeral: true,
			}, nil
		}
		caps.Add(c)
	}

	if len(caps) == 0 {
		return &command.Result{Content: "I need at least one capability to grant.", Ephemeral: true}, nil
	}

	_, err := bot.Store.Update(ctx, inv.Actor.GuildID, store.SetOverride{
		RoleID:       roleID,
		Capabilities: caps,
	})
	if err != nil {
		return nil, errors.Wrap(err, "updating guild config")
	}

	return &command.Result{
		Content: fmt.Sprintf("<@&%v> now additionally grants: %v", roleID, strings.Join(caps.Strings(), ", ")),
	}, nil
}

func (bot *Bot) overrideClear(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	roleID := inv.Args.String("role")
	if roleID == "" {
		return &command.Result{Content: "I need a role to clear the override for.", Ephemeral: true}, nil
	}

	if _, ok := inv.Config.Overrides[roleID]; !ok {
		return &command.Result{
			Content:   fmt.Sprintf("<@&%v> doesn't have a capability override.", roleID),
			Ephemeral: true,
		}, nil
	}

	_, err := bot.Store.Update(ctx, inv.Actor.GuildID, store.ClearOverride{RoleID: roleID})
	if err != nil {
		return nil, errors.Wrap(err, "updating guild config")
	}

	return &command.Result{
		Content: fmt.Sprintf("Cleared the capability override for <@&%v>.", roleID),
	}, nil
}

func (bot *Bot) overrideList(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	if len(inv.Config.Overrides) == 0 {
		return &command.Result{
			Content:   "This server has no capability overrides. Use `/config override set` to add one.",
			Ephemeral: true,
		}, nil
	}

	var b strings.Builder
	b.WriteString("Capability overrides for this server:\n")
	for _, roleID := range sortedRoles(inv.Config.Overrides) {
		fmt.Fprintf(&b, "<@&%v>: %v\n", roleID, strings.Join(inv.Config.Overrides[roleID].Strings(), ", "))
	}

	return &command.Result{Content: b.String(), Ephemeral: true}, nil
}

func (bot *Bot) toggle(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	name := inv.Args.String("name")
	if !store.KnownToggle(name) {
		return &command.Result{
			Content: fmt.Sprintf(
				"``%v`` isn't a toggle I know about. Valid toggles: %v",
				name, strings.Join(store.Toggles(), ", "),
			),
			Ephemeral: true,
		}, nil
	}

	value := inv.Args.Bool("value")

	_, err := bot.Store.Update(ctx, inv.Actor.GuildID, store.SetToggle{Name: name, Value: value})
	if err != nil {
		return nil, errors.Wrap(err, "updating guild config")
	}

	state := "disabled"
	if value {
		state = "enabled"
	}
	return &command.Result{Content: fmt.Sprintf("`%v` is now %v.", name, state)}, nil
}

func (bot *Bot) logChannelSet(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	channelID := inv.Args.String("channel")
	if channelID == "" {
		return &command.Result{Content: "I need a channel to send audit records to.", Ephemeral: true}, nil
	}

	_, err := bot.Store.Update(ctx, inv.Actor.GuildID, store.SetLogChannel{ChannelID: channelID})
	if err != nil {
		return nil, errors.Wrap(err, "updating guild config")
	}

	return &command.Result{
		Content: fmt.Sprintf("Audit records will now be sent to <#%v>.", channelID),
	}, nil
}

func (bot *Bot) logChannelClear(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	_, err := bot.Store.Update(ctx, inv.Actor.GuildID, store.SetLogChannel{})
	if err != nil {
		return nil, errors.Wrap(err, "updating guild config")
	}

	return &command.Result{Content: "Audit records will no longer be sent to a channel."}, nil
}

func sortedRoles(overrides map[string]perm.Set) []string {
	out := make([]string, 0, len(overrides))
	for r := range overrides {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
