package store

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/perm"
)

// SetOverride grants extra capabilities to a role.
type SetOverride struct {
	RoleID       string
	Capabilities perm.Set
}

func (m SetOverride) Apply(c *GuildConfig) error {
	if m.RoleID == "" {
		return errors.WithMessage(ErrInvalidMutation, "empty role ID")
	}
	for cap := range m.Capabilities {
		if !perm.Known(cap) {
			return errors.WithMessagef(ErrInvalidMutation, "unknown capability %q", cap)
		}
	}

	if c.Overrides == nil {
		c.Overrides = map[string]perm.Set{}
	}
	c.Overrides[m.RoleID] = m.Capabilities.Clone()
	return nil
}

func (m SetOverride) String() string {
	return fmt.Sprintf("set override for role %v to [%v]", m.RoleID, strings.Join(m.Capabilities.Strings(), ", "))
}

// ClearOverride removes a role's capability override.
type ClearOverride struct {
	RoleID string
}

func (m ClearOverride) Apply(c *GuildConfig) error {
	if m.RoleID == "" {
		return errors.WithMessage(ErrInvalidMutation, "empty role ID")
	}

	delete(c.Overrides, m.RoleID)
	return nil
}

func (m ClearOverride) String() string {
	return "clear override for role " + m.RoleID
}

// SetToggle sets a feature toggle.
type SetToggle struct {
	Name  string
	Value bool
}

func (m SetToggle) Apply(c *GuildConfig) error {
	if !KnownToggle(m.Name) {
		return errors.WithMessagef(ErrInvalidMutation, "unknown toggle %q", m.Name)
	}

	if c.Toggles == nil {
		c.Toggles = map[string]bool{}
	}
	c.Toggles[m.Name] = m.Value
	return nil
}

func (m SetToggle) String() string {
	return fmt.Sprintf("set toggle %v to %v", m.Name, m.Value)
}

// SetLogChannel changes where audit records are mirrored. An empty channel ID
// disables mirroring.
type SetLogChannel struct {
	ChannelID string
}

func (m SetLogChannel) Apply(c *GuildConfig) error {
	c.LogChannel = m.ChannelID
	return nil
}

func (m SetLogChannel) String() string {
	if m.ChannelID == "" {
		return "clear log channel"
	}
	return "set log channel to " + m.ChannelID
}
