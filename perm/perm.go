// Package perm implements the capability model used to gate commands.
//
// A Capability is an opaque identifier naming a single administrative
// privilege. Capabilities carry no hierarchy of their own; the only
// distinguished capability is the administrator capability, which a Checker
// may treat as implying every other capability.
package perm

import (
	"encoding/json"
	"sort"
)

// Capability is a single named privilege, such as "ban-members".
type Capability string

// Administrator is the distinguished capability that, depending on the
// Checker, implies all other capabilities.
const Administrator Capability = "administrator"

// The closed capability space used by the built-in commands. Guild
// configuration may only grant capabilities from this space.
const (
	KickMembers     Capability = "kick-members"
	BanMembers      Capability = "ban-members"
	ManageMessages  Capability = "manage-messages"
	ManageChannels  Capability = "manage-channels"
	ManageGuild     Capability = "manage-guild"
	ModerateMembers Capability = "moderate-members"
)

// All is every capability the built-in commands use, including Administrator.
var All = NewSet(
	Administrator,
	KickMembers,
	BanMembers,
	ManageMessages,
	ManageChannels,
	ManageGuild,
	ModerateMembers,
)

// Known returns true if c is part of the closed capability space.
func Known(c Capability) bool {
	return All.Has(c)
}

// Mode is how a command's required capability set is evaluated.
type Mode int

const (
	// ModeAll requires every capability in the set.
	ModeAll Mode = iota
	// ModeAny requires at least one capability in the set.
	ModeAny
)

func (m Mode) String() string {
	if m == ModeAny {
		return "any"
	}
	return "all"
}

// Set is a set of capabilities.
type Set map[Capability]struct{}

// NewSet returns a Set containing the given capabilities.
func NewSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has returns true if c is in the set.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Add adds c to the set.
func (s Set) Add(c Capability) {
	s[c] = struct{}{}
}

// Union returns a new set containing the capabilities of both s and other.
// Neither input set is modified.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for c := range s {
		out[c] = struct{}{}
	}
	for c := range other {
		out[c] = struct{}{}
	}
	return out
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Slice returns the set's capabilities in lexical order.
func (s Set) Slice() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the set's capabilities as strings, in lexical order.
func (s Set) Strings() []string {
	caps := s.Slice()
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}

// MarshalJSON encodes the set as a sorted array of capability names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of capability names.
func (s *Set) UnmarshalJSON(b []byte) error {
	var caps []Capability
	if err := json.Unmarshal(b, &caps); err != nil {
		return err
	}
	*s = NewSet(caps...)
	return nil
}

// Checker evaluates capability requirements.
type Checker struct {
	// Admin is the capability that short-circuits all checks.
	Admin Capability
	// ImpliesAll controls whether holding Admin satisfies every requirement.
	// The platform treats its administrator permission as absolute, so the
	// default checker sets this to true.
	ImpliesAll bool
}

// Default is the checker used by package-level Has.
var Default = Checker{Admin: Administrator, ImpliesAll: true}

// Has reports whether the granted set satisfies the required set under the
// given mode. Unknown capability identifiers in required simply never match.
// An empty required set is satisfied under ModeAll and never under ModeAny.
func (ck Checker) Has(granted, required Set, mode Mode) bool {
	if ck.ImpliesAll && ck.Admin != "" && granted.Has(ck.Admin) {
		return true
	}

	if mode == ModeAny {
		for c := range required {
			if granted.Has(c) {
				return true
			}
		}
		return false
	}

	for c := range required {
		if !granted.Has(c) {
			return false
		}
	}
	return true
}

// Has evaluates the requirement with the Default checker.
func Has(granted, required Set, mode Mode) bool {
	return Default.Has(granted, required, mode)
}
