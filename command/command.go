// Package command holds command definitions and the registry that resolves
// invocations to them.
package command

import (
	"context"
	"time"

	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

// Actor is the entity invoking a command, built fresh for every invocation
// from platform-supplied data.
type Actor struct {
	ID      string
	GuildID string
	Roles   []string

	// Granted is the capability set derived from the actor's platform
	// permissions, before guild overrides are applied.
	Granted perm.Set

	IsGuildOwner bool
}

// Args is the argument map passed to a handler.
type Args map[string]any

// String returns the named argument as a string, or "" if absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int returns the named argument as an int64, or 0 if absent.
func (a Args) Int(key string) int64 {
	switch v := a[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Bool returns the named argument as a bool, or false if absent.
func (a Args) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Duration returns the named argument as a duration, or 0 if absent.
func (a Args) Duration(key string) time.Duration {
	d, _ := a[key].(time.Duration)
	return d
}

// Invocation is one request to run a named command.
type Invocation struct {
	Command string
	Args    Args
	Actor   Actor

	// Config is the invoking guild's configuration. It is the zero value for
	// commands that are not guild scoped.
	Config store.GuildConfig
}

// Result is what a handler returns on success.
type Result struct {
	// Content is a human-readable summary of what the command did.
	Content string
	// Ephemeral marks the response as visible to the invoking actor only.
	Ephemeral bool
}

// HandlerFunc is the executable logic bound to a command name. It runs only
// after authorization succeeds. The context carries the dispatcher's
// execution budget; handlers doing platform calls should respect it.
type HandlerFunc func(ctx context.Context, inv *Invocation) (*Result, error)

// Definition describes a single command. Definitions are immutable once
// registered.
type Definition struct {
	// Name uniquely identifies the command within a registry.
	Name string
	// Summary is a one-line description used in help output.
	Summary string

	// Require is the capability set gating the command, evaluated under Mode.
	Require perm.Set
	Mode    perm.Mode

	// GuildScoped commands can only be invoked from within a guild.
	GuildScoped bool
	// Public commands skip the capability check entirely (guild scoping still
	// applies). Only public commands may have an empty Require set.
	Public bool

	Exec HandlerFunc
}
