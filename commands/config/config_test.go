package config

import (
	"context"
	"strings"
	"testing"

	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/store"
	"github.com/starshine-sys/warden/store/memory"
)

func testBot() *Bot {
	return &Bot{Bot: &bot.Bot{Store: memory.New()}}
}

func invocation(name string, args command.Args) *command.Invocation {
	return &command.Invocation{
		Command: name,
		Args:    args,
		Actor:   command.Actor{ID: "actor-1", GuildID: "guild-1"},
		Config:  store.NewGuildConfig("guild-1"),
	}
}

func TestOverrideSet(t *testing.T) {
	b := testBot()
	ctx := context.Background()

	res, err := b.overrideSet(ctx, invocation("config/override/set", command.Args{
		"role":         "role-mod",
		"capabilities": "ban-members, kick-members",
	}))
	if err != nil {
		t.Fatalf("override set: %v", err)
	}
	if res.Ephemeral {
		t.Errorf("successful override set should not be ephemeral: %v", res.Content)
	}

	cfg, err := b.Store.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	caps := cfg.CapabilitiesFor([]string{"role-mod"})
	if !caps.Has("ban-members") || !caps.Has("kick-members") {
		t.Errorf("override not stored: %v", caps.Slice())
	}
}

func TestOverrideSetUnknownCapability(t *testing.T) {
	b := testBot()

	res, err := b.overrideSet(context.Background(), invocation("config/override/set", command.Args{
		"role":         "role-mod",
		"capabilities": "launch-missiles",
	}))
	if err != nil {
		t.Fatalf("override set: %v", err)
	}
	if !res.Ephemeral || !strings.Contains(res.Content, "launch-missiles") {
		t.Errorf("expected ephemeral rejection, got %+v", res)
	}

	cfg, _ := b.Store.Get(context.Background(), "guild-1")
	if len(cfg.Overrides) != 0 {
		t.Error("invalid override was stored")
	}
}

func TestOverrideClearMissing(t *testing.T) {
	b := testBot()

	res, err := b.overrideClear(context.Background(), invocation("config/override/clear", command.Args{
		"role": "role-unknown",
	}))
	if err != nil {
		t.Fatalf("override clear: %v", err)
	}
	if !res.Ephemeral {
		t.Errorf("clearing a missing override should be an ephemeral notice: %+v", res)
	}
}

func TestToggle(t *testing.T) {
	b := testBot()
	ctx := context.Background()

	res, err := b.toggle(ctx, invocation("config/toggle", command.Args{
		"name":  store.ToggleDMOnAction,
		"value": false,
	}))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(res.Content, "disabled") {
		t.Errorf("Content = %q", res.Content)
	}

	cfg, _ := b.Store.Get(ctx, "guild-1")
	if cfg.Toggle(store.ToggleDMOnAction) {
		t.Error("toggle not persisted")
	}
}

func TestToggleUnknownName(t *testing.T) {
	b := testBot()

	res, err := b.toggle(context.Background(), invocation("config/toggle", command.Args{
		"name":  "self-destruct",
		"value": true,
	}))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Ephemeral {
		t.Errorf("expected ephemeral rejection, got %+v", res)
	}
}

func TestLogChannel(t *testing.T) {
	b := testBot()
	ctx := context.Background()

	_, err := b.logChannelSet(ctx, invocation("config/logchannel/set", command.Args{
		"channel": "1234",
	}))
	if err != nil {
		t.Fatalf("logchannel set: %v", err)
	}

	cfg, _ := b.Store.Get(ctx, "guild-1")
	if cfg.LogChannel != "1234" {
		t.Errorf("LogChannel = %q", cfg.LogChannel)
	}

	_, err = b.logChannelClear(ctx, invocation("config/logchannel/clear", nil))
	if err != nil {
		t.Fatalf("logchannel clear: %v", err)
	}

	cfg, _ = b.Store.Get(ctx, "guild-1")
	if cfg.LogChannel != "" {
		t.Error("log channel not cleared")
	}
}
