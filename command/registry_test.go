package command

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/perm"
)

func noop(_ context.Context, _ *Invocation) (*Result, error) {
	return &Result{}, nil
}

func def(name string) Definition {
	return Definition{
		Name:    name,
		Require: perm.NewSet(perm.BanMembers),
		Exec:    noop,
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	first := def("ban")
	first.Summary = "the original"
	if err := r.Register(first); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := r.Register(def("ban"))
	if !errors.Is(err, ErrDuplicateCommand) {
		t.Fatalf("expected ErrDuplicateCommand, got %v", err)
	}

	// the first registration must be left intact
	got, err := r.Lookup("ban")
	if err != nil {
		t.Fatalf("lookup after duplicate: %v", err)
	}
	if got.Summary != "the original" {
		t.Errorf("duplicate registration clobbered the original definition")
	}
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Definition{Name: "broken", Require: perm.NewSet(perm.BanMembers)})
	if !errors.Is(err, ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", err)
	}

	err = r.Register(Definition{Name: "gateless", Exec: noop})
	if !errors.Is(err, ErrNoCapabilities) {
		t.Errorf("expected ErrNoCapabilities, got %v", err)
	}

	err = r.Register(Definition{Require: perm.NewSet(perm.BanMembers), Exec: noop})
	if !errors.Is(err, ErrNoName) {
		t.Errorf("expected ErrNoName, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("an empty name is a registration failure, not a lookup failure")
	}

	// public commands may skip capabilities
	if err := r.Register(Definition{Name: "ping", Public: true, Exec: noop}); err != nil {
		t.Errorf("public command without capabilities should register: %v", err)
	}
}

func TestLookupNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("nuke")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListInsertionOrder(t *testing.T) {
	r := NewRegistry()

	names := []string{"zebra", "apple", "middle"}
	for _, n := range names {
		if err := r.Register(def(n)); err != nil {
			t.Fatalf("registering %q: %v", n, err)
		}
	}

	list := r.List()
	if len(list) != len(names) {
		t.Fatalf("got %d definitions, want %d", len(list), len(names))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].Name, n)
		}
	}
}

func TestHolderSwap(t *testing.T) {
	old := NewRegistry()
	old.MustRegister(def("ban"))

	h := NewHolder(old)
	if h.Load().Len() != 1 {
		t.Fatalf("holder did not return initial registry")
	}

	fresh := NewRegistry()
	fresh.MustRegister(def("ban"))
	fresh.MustRegister(def("kick"))
	h.Swap(fresh)

	if h.Load().Len() != 2 {
		t.Errorf("holder did not return swapped registry")
	}
}

func TestArgsAccessors(t *testing.T) {
	a := Args{"user": "123", "days": int64(7), "silent": true}

	if a.String("user") != "123" {
		t.Errorf("String(user) = %q", a.String("user"))
	}
	if a.Int("days") != 7 {
		t.Errorf("Int(days) = %d", a.Int("days"))
	}
	if !a.Bool("silent") {
		t.Error("Bool(silent) = false")
	}
	if a.String("missing") != "" || a.Int("missing") != 0 || a.Bool("missing") {
		t.Error("missing keys should return zero values")
	}
}
