package store

import (
	"testing"

	"github.com/starshine-sys/warden/perm"
)

func TestCapabilitiesFor(t *testing.T) {
	c := NewGuildConfig("guild-1")
	c.Overrides["mods"] = perm.NewSet(perm.KickMembers, perm.ManageMessages)
	c.Overrides["admins"] = perm.NewSet(perm.BanMembers)

	caps := c.CapabilitiesFor([]string{"mods", "unrelated"})
	if !caps.Has(perm.KickMembers) || !caps.Has(perm.ManageMessages) {
		t.Errorf("missing mod capabilities: %v", caps.Slice())
	}
	if caps.Has(perm.BanMembers) {
		t.Error("actor without the admins role got its capabilities")
	}

	if got := c.CapabilitiesFor(nil); len(got) != 0 {
		t.Errorf("no roles should mean no override capabilities, got %v", got.Slice())
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := NewGuildConfig("guild-1")
	c.Overrides["mods"] = perm.NewSet(perm.KickMembers)

	clone := c.Clone()
	clone.Overrides["mods"].Add(perm.Administrator)
	clone.Toggles[ToggleDMOnAction] = false

	if c.Overrides["mods"].Has(perm.Administrator) {
		t.Error("clone shares override sets with the original")
	}
	if !c.Toggle(ToggleDMOnAction) {
		t.Error("clone shares toggle map with the original")
	}
}

func TestKnownToggle(t *testing.T) {
	for _, name := range Toggles() {
		if !KnownToggle(name) {
			t.Errorf("listed toggle %q not known", name)
		}
	}
	if KnownToggle("made-up") {
		t.Error("unknown toggle accepted")
	}
}
