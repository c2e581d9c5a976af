// Package store defines per-guild configuration and the interface used to
// persist it. Guild configuration is created lazily with defaults on first
// access and mutated only through explicit Mutation values, so every backend
// can serialize writes per guild without knowing what changed.
package store

import (
	"context"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/perm"
)

const (
	// ErrInvalidMutation is returned for mutations that reference a malformed
	// role identifier or an unknown toggle name. The stored config is
	// unchanged.
	ErrInvalidMutation = errors.Sentinel("invalid configuration mutation")
)

// Feature toggle names. Toggles form a closed set; mutations referencing any
// other name are rejected.
const (
	ToggleAuditToChannel = "audit-to-channel"
	ToggleDMOnAction     = "dm-on-action"
	ToggleEphemeralDeny  = "ephemeral-deny"
)

var knownToggles = map[string]bool{
	ToggleAuditToChannel: true,
	ToggleDMOnAction:     true,
	ToggleEphemeralDeny:  true,
}

// KnownToggle returns true if name is a valid feature toggle.
func KnownToggle(name string) bool {
	return knownToggles[name]
}

// Toggles returns all valid toggle names, for listing output.
func Toggles() []string {
	return []string{ToggleAuditToChannel, ToggleDMOnAction, ToggleEphemeralDeny}
}

// GuildConfig is the per-guild configuration consulted on every command
// invocation.
type GuildConfig struct {
	GuildID string `json:"guild_id"`

	// Overrides maps a role ID to extra capabilities granted to holders of
	// that role, on top of what the platform already grants them.
	Overrides map[string]perm.Set `json:"overrides"`

	// LogChannel is where audit records are mirrored, if set.
	LogChannel string `json:"log_channel"`

	Toggles map[string]bool `json:"toggles"`
}

// NewGuildConfig returns the default configuration for a guild.
func NewGuildConfig(guildID string) GuildConfig {
	return GuildConfig{
		GuildID:   guildID,
		Overrides: map[string]perm.Set{},
		Toggles: map[string]bool{
			ToggleAuditToChannel: true,
			ToggleDMOnAction:     true,
			ToggleEphemeralDeny:  true,
		},
	}
}

// Toggle returns the state of the named toggle, defaulting to false for names
// never written.
func (c GuildConfig) Toggle(name string) bool {
	return c.Toggles[name]
}

// CapabilitiesFor returns the capabilities the config's overrides grant to an
// actor holding the given roles.
func (c GuildConfig) CapabilitiesFor(roles []string) perm.Set {
	out := perm.NewSet()
	for _, r := range roles {
		for cap := range c.Overrides[r] {
			out.Add(cap)
		}
	}
	return out
}

// Clone returns a deep copy of the config. Backends return clones so callers
// can't alias stored state.
func (c GuildConfig) Clone() GuildConfig {
	out := c
	out.Overrides = make(map[string]perm.Set, len(c.Overrides))
	for r, s := range c.Overrides {
		out.Overrides[r] = s.Clone()
	}
	out.Toggles = make(map[string]bool, len(c.Toggles))
	for k, v := range c.Toggles {
		out.Toggles[k] = v
	}
	return out
}

// Mutation is a single described change to a guild's configuration. Apply
// returns ErrInvalidMutation for changes that reference malformed input; the
// config must be left untouched in that case.
type Mutation interface {
	Apply(c *GuildConfig) error
	String() string
}

// Store is the persistence interface for guild configuration.
//
// Get creates and returns the default config on first access. Update applies
// the mutation and returns the resulting config; concurrent updates to the
// same guild are serialized by the implementation, and readers always see
// either the pre- or post-update config, never a partial write.
type Store interface {
	Get(ctx context.Context, guildID string) (GuildConfig, error)
	Update(ctx context.Context, guildID string, m Mutation) (GuildConfig, error)
}
