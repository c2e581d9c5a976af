package bot

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/warden/perm"
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name  string
		perms discord.Permissions
		want  []perm.Capability
	}{
		{
			name:  "none",
			perms: discord.PermissionSendMessages,
			want:  nil,
		},
		{
			name:  "moderator",
			perms: discord.PermissionBanMembers | discord.PermissionKickMembers,
			want:  []perm.Capability{perm.BanMembers, perm.KickMembers},
		},
		{
			name:  "timeout",
			perms: PermissionModerateMembers,
			want:  []perm.Capability{perm.ModerateMembers},
		},
		{
			name:  "admin",
			perms: discord.PermissionAdministrator,
			want:  []perm.Capability{perm.Administrator},
		},
		{
			name:  "everything",
			perms: discord.PermissionAll | PermissionModerateMembers,
			want: []perm.Capability{
				perm.Administrator, perm.BanMembers, perm.KickMembers,
				perm.ManageChannels, perm.ManageGuild, perm.ManageMessages,
				perm.ModerateMembers,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capabilities(tt.perms)

			if len(got) != len(tt.want) {
				t.Fatalf("capabilities(%v) = %v, want %v", tt.perms, got.Slice(), tt.want)
			}
			for _, c := range tt.want {
				if !got.Has(c) {
					t.Errorf("capabilities(%v) is missing %v", tt.perms, c)
				}
			}
		})
	}
}
