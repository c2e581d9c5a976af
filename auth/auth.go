// Package auth decides whether a command invocation is permitted.
package auth

import (
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

// Denial reasons. These end up in audit records and caller-visible
// rejections.
const (
	ReasonNotInGuild        = "not-in-guild"
	ReasonMissingCapability = "missing-capability"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	// Reason is set for denials.
	Reason string
	// Missing lists the capabilities the actor lacked, for denial messages.
	Missing []perm.Capability
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(reason string, missing ...perm.Capability) Decision {
	return Decision{Reason: reason, Missing: missing}
}

// Authorizer evaluates invocations against the capability model. The zero
// value uses the default checker (administrator implies everything).
type Authorizer struct {
	checker perm.Checker
}

// New returns an Authorizer using the given checker.
func New(checker perm.Checker) *Authorizer {
	return &Authorizer{checker: checker}
}

// Authorize decides whether the actor may run the command. It is a pure
// decision: the guild-scope check runs first so no override data is computed
// for an actor outside a guild, then the owner override, then the capability
// check against the actor's effective grants.
func (a *Authorizer) Authorize(def *command.Definition, actor command.Actor, cfg store.GuildConfig) Decision {
	if def.GuildScoped && actor.GuildID == "" {
		return denied(ReasonNotInGuild)
	}

	if actor.IsGuildOwner {
		// ownership is a superset of every capability by platform convention
		return allowed()
	}

	if def.Public {
		return allowed()
	}

	effective := actor.Granted.Union(cfg.CapabilitiesFor(actor.Roles))
	if a.check().Has(effective, def.Require, def.Mode) {
		return allowed()
	}

	return denied(ReasonMissingCapability, missingFrom(effective, def)...)
}

func (a *Authorizer) check() perm.Checker {
	if a == nil || a.checker == (perm.Checker{}) {
		return perm.Default
	}
	return a.checker
}

// missingFrom lists the required capabilities not in the effective set. In
// any-of mode every requirement is reported, as holding one would suffice.
func missingFrom(effective perm.Set, def *command.Definition) []perm.Capability {
	var out []perm.Capability
	for _, c := range def.Require.Slice() {
		if !effective.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
