package moderation

import (
	"testing"

	"github.com/starshine-sys/warden/bot"
	"github.com/starshine-sys/warden/perm"
)

func TestSetupCommandSet(t *testing.T) {
	root := &bot.Bot{}
	Setup(root)

	want := map[string]perm.Capability{
		"ban":       perm.BanMembers,
		"unban":     perm.BanMembers,
		"kick":      perm.KickMembers,
		"timeout":   perm.ModerateMembers,
		"untimeout": perm.ModerateMembers,
		"warn":      perm.ModerateMembers,
		"warnings":  perm.ModerateMembers,
		"purge":     perm.ManageMessages,
		"slowmode":  perm.ManageChannels,
		"lockdown":  perm.ManageChannels,
	}

	defs := root.Definitions()
	if len(defs) != len(want) {
		t.Errorf("registered %v commands, want %v", len(defs), len(want))
	}

	got := map[string]bool{}
	for _, def := range defs {
		got[def.Name] = true

		cap, ok := want[def.Name]
		if !ok {
			t.Errorf("unexpected command %q", def.Name)
			continue
		}
		if !def.Require.Has(cap) {
			t.Errorf("%q does not require %v", def.Name, cap)
		}
		if !def.GuildScoped {
			t.Errorf("%q is not guild scoped", def.Name)
		}
		if def.Exec == nil {
			t.Errorf("%q has no handler", def.Name)
		}
	}

	// every action that can be applied must also be liftable
	for action, reversal := range map[string]string{
		"ban":     "unban",
		"timeout": "untimeout",
	} {
		if got[action] && !got[reversal] {
			t.Errorf("%q is registered without %q", action, reversal)
		}
	}
}
