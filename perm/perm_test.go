package perm

import "testing"

func TestAdminOverridesEverything(t *testing.T) {
	granted := NewSet(Administrator)

	requirements := []Set{
		NewSet(BanMembers),
		NewSet(BanMembers, KickMembers, ManageGuild),
		NewSet("made-up-capability"),
		NewSet(),
	}

	for _, required := range requirements {
		for _, mode := range []Mode{ModeAll, ModeAny} {
			if !Has(granted, required, mode) {
				t.Errorf("administrator should satisfy %v in mode %v", required.Slice(), mode)
			}
		}
	}
}

func TestAdminImpliesAllDisabled(t *testing.T) {
	ck := Checker{Admin: Administrator, ImpliesAll: false}

	if ck.Has(NewSet(Administrator), NewSet(BanMembers), ModeAll) {
		t.Error("administrator should not imply ban-members with ImpliesAll disabled")
	}
	if !ck.Has(NewSet(Administrator), NewSet(Administrator), ModeAll) {
		t.Error("administrator should still match itself")
	}
}

func TestHasModeAll(t *testing.T) {
	tests := []struct {
		name     string
		granted  Set
		required Set
		want     bool
	}{
		{"exact match", NewSet(BanMembers), NewSet(BanMembers), true},
		{"superset", NewSet(BanMembers, KickMembers), NewSet(BanMembers), true},
		{"missing one", NewSet(BanMembers), NewSet(BanMembers, KickMembers), false},
		{"empty required", NewSet(BanMembers), NewSet(), true},
		{"empty granted", NewSet(), NewSet(BanMembers), false},
		{"unknown required never matches", NewSet(BanMembers), NewSet("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.granted, tt.required, ModeAll); got != tt.want {
				t.Errorf("Has(%v, %v, all) = %v, want %v", tt.granted.Slice(), tt.required.Slice(), got, tt.want)
			}
		})
	}
}

func TestHasModeAny(t *testing.T) {
	tests := []struct {
		name     string
		granted  Set
		required Set
		want     bool
	}{
		{"one of several", NewSet(KickMembers), NewSet(BanMembers, KickMembers), true},
		{"none", NewSet(ManageGuild), NewSet(BanMembers, KickMembers), false},
		{"empty required", NewSet(BanMembers), NewSet(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.granted, tt.required, ModeAny); got != tt.want {
				t.Errorf("Has(%v, %v, any) = %v, want %v", tt.granted.Slice(), tt.required.Slice(), got, tt.want)
			}
		})
	}
}

func TestUnionDoesNotModifyInputs(t *testing.T) {
	a := NewSet(BanMembers)
	b := NewSet(KickMembers)

	u := a.Union(b)

	if !u.Has(BanMembers) || !u.Has(KickMembers) {
		t.Error("union should contain both capabilities")
	}
	if len(a) != 1 || len(b) != 1 {
		t.Error("union modified an input set")
	}
}

func TestStringsOrdered(t *testing.T) {
	s := NewSet(ManageGuild, BanMembers, KickMembers)

	got := s.Strings()
	want := []string{"ban-members", "kick-members", "manage-guild"}
	if len(got) != len(want) {
		t.Fatalf("got %d capabilities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
