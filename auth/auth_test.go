package auth

import (
	"testing"

	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

func banCommand() *command.Definition {
	return &command.Definition{
		Name:        "ban",
		Require:     perm.NewSet(perm.BanMembers),
		Mode:        perm.ModeAll,
		GuildScoped: true,
	}
}

func TestGuildScopedOutsideGuild(t *testing.T) {
	a := New(perm.Default)

	actor := command.Actor{ID: "user-1", Granted: perm.NewSet(perm.Administrator)}
	d := a.Authorize(banCommand(), actor, store.GuildConfig{})

	if d.Allowed {
		t.Fatal("guild-scoped command allowed outside a guild")
	}
	if d.Reason != ReasonNotInGuild {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonNotInGuild)
	}
}

func TestOwnerOverride(t *testing.T) {
	a := New(perm.Default)

	// owner with zero granted capabilities
	actor := command.Actor{
		ID:           "user-1",
		GuildID:      "guild-1",
		Granted:      perm.NewSet(),
		IsGuildOwner: true,
	}

	if d := a.Authorize(banCommand(), actor, store.NewGuildConfig("guild-1")); !d.Allowed {
		t.Errorf("guild owner denied: %v", d.Reason)
	}
}

func TestOverrideGrantsCapability(t *testing.T) {
	a := New(perm.Default)

	cfg := store.NewGuildConfig("guild-1")
	cfg.Overrides["role-mod"] = perm.NewSet(perm.BanMembers)

	actor := command.Actor{
		ID:      "user-1",
		GuildID: "guild-1",
		Roles:   []string{"role-mod"},
		Granted: perm.NewSet(perm.KickMembers),
	}

	if d := a.Authorize(banCommand(), actor, cfg); !d.Allowed {
		t.Errorf("override should grant ban-members: denied with %v", d.Reason)
	}

	// without the role, same actor is denied
	actor.Roles = nil
	d := a.Authorize(banCommand(), actor, cfg)
	if d.Allowed {
		t.Fatal("actor without override role should be denied")
	}
	if d.Reason != ReasonMissingCapability {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonMissingCapability)
	}
	if len(d.Missing) != 1 || d.Missing[0] != perm.BanMembers {
		t.Errorf("missing = %v, want [ban-members]", d.Missing)
	}
}

func TestAllModeRequiresSubset(t *testing.T) {
	a := New(perm.Default)

	def := &command.Definition{
		Name:        "lockdown",
		Require:     perm.NewSet(perm.ManageChannels, perm.ManageGuild),
		Mode:        perm.ModeAll,
		GuildScoped: true,
	}

	actor := command.Actor{
		ID:      "user-1",
		GuildID: "guild-1",
		Granted: perm.NewSet(perm.ManageChannels),
	}

	if d := a.Authorize(def, actor, store.NewGuildConfig("guild-1")); d.Allowed {
		t.Fatal("partial grant should not satisfy all-of requirements")
	}

	actor.Granted.Add(perm.ManageGuild)
	if d := a.Authorize(def, actor, store.NewGuildConfig("guild-1")); !d.Allowed {
		t.Errorf("full grant denied: %v", d.Reason)
	}
}

func TestPublicCommandSkipsCapabilities(t *testing.T) {
	a := New(perm.Default)

	def := &command.Definition{Name: "ping", Public: true}
	actor := command.Actor{ID: "user-1", Granted: perm.NewSet()}

	if d := a.Authorize(def, actor, store.GuildConfig{}); !d.Allowed {
		t.Errorf("public command denied: %v", d.Reason)
	}
}

func TestConfigurableAdminChecker(t *testing.T) {
	a := New(perm.Checker{Admin: perm.Administrator, ImpliesAll: false})

	actor := command.Actor{
		ID:      "user-1",
		GuildID: "guild-1",
		Granted: perm.NewSet(perm.Administrator),
	}

	if d := a.Authorize(banCommand(), actor, store.NewGuildConfig("guild-1")); d.Allowed {
		t.Error("administrator should not imply ban-members with ImpliesAll disabled")
	}
}
