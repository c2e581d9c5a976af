package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/audit"
	"github.com/starshine-sys/warden/auth"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
	"github.com/starshine-sys/warden/store/memory"
)

// recordingSink collects every record it's given.
type recordingSink struct {
	mu   sync.Mutex
	recs []audit.Record
	fail error
}

func (s *recordingSink) Record(_ context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.recs = append(s.recs, rec)
	return nil
}

func (s *recordingSink) all() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Record(nil), s.recs...)
}

type fixture struct {
	d    *Dispatcher
	sink *recordingSink
	st   *memory.Store
}

func newFixture(t *testing.T, defs ...command.Definition) *fixture {
	t.Helper()

	reg := command.NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			t.Fatalf("registering %q: %v", def.Name, err)
		}
	}

	sink := &recordingSink{}
	st := memory.New()
	return &fixture{
		d:    New(command.NewHolder(reg), st, auth.New(perm.Default), sink),
		sink: sink,
		st:   st,
	}
}

func banDef(exec command.HandlerFunc) command.Definition {
	if exec == nil {
		exec = func(_ context.Context, _ *command.Invocation) (*command.Result, error) {
			return &command.Result{Content: "banned"}, nil
		}
	}
	return command.Definition{
		Name:        "ban",
		Require:     perm.NewSet(perm.BanMembers),
		Mode:        perm.ModeAll,
		GuildScoped: true,
		Exec:        exec,
	}
}

func TestUnknownCommandSkipsAuditAndAuthorizer(t *testing.T) {
	f := newFixture(t)

	_, err := f.d.Dispatch(context.Background(), &command.Invocation{
		Command: "nuke",
		Actor:   command.Actor{ID: "user-1", GuildID: "guild-1"},
	})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if n := len(f.sink.all()); n != 0 {
		t.Errorf("unknown command produced %d audit records, want 0", n)
	}
}

func TestOverrideAllowsHandler(t *testing.T) {
	invoked := false
	f := newFixture(t, banDef(func(_ context.Context, inv *command.Invocation) (*command.Result, error) {
		invoked = true
		// the handler sees the guild config the authorizer used
		if inv.Config.GuildID != "guild-1" {
			t.Errorf("handler got config for %q", inv.Config.GuildID)
		}
		return &command.Result{Content: "banned"}, nil
	}))

	_, err := f.st.Update(context.Background(), "guild-1", store.SetOverride{
		RoleID:       "role-mod",
		Capabilities: perm.NewSet(perm.BanMembers),
	})
	if err != nil {
		t.Fatalf("seeding override: %v", err)
	}

	res, err := f.d.Dispatch(context.Background(), &command.Invocation{
		Command: "ban",
		Actor: command.Actor{
			ID:      "user-a",
			GuildID: "guild-1",
			Roles:   []string{"role-mod"},
			Granted: perm.NewSet(perm.KickMembers),
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !invoked {
		t.Fatal("handler was not invoked")
	}
	if res.Content != "banned" {
		t.Errorf("result content = %q", res.Content)
	}

	recs := f.sink.all()
	if len(recs) != 1 {
		t.Fatalf("got %d audit records, want 1", len(recs))
	}
	if recs[0].Outcome != audit.OutcomeAllowed {
		t.Errorf("outcome = %v, want allowed", recs[0].Outcome)
	}
}

func TestOwnerOverrideAllows(t *testing.T) {
	f := newFixture(t, banDef(nil))

	res, err := f.d.Dispatch(context.Background(), &command.Invocation{
		Command: "ban",
		Actor: command.Actor{
			ID:           "user-b",
			GuildID:      "guild-1",
			Granted:      perm.NewSet(),
			IsGuildOwner: true,
		},
	})
	if err != nil {
		t.Fatalf("owner dispatch: %v", err)
	}
	if res == nil {
		t.Fatal("owner dispatch returned no result")
	}
}

func TestDenialAuditedHandlerNotInvoked(t *testing.T) {
	invoked := false
	f := newFixture(t, banDef(func(_ context.Context, _ *command.Invocation) (*command.Result, error) {
		invoked = true
		return &command.Result{}, nil
	}))

	_, err := f.d.Dispatch(context.Background(), &command.Invocation{
		Command: "ban",
		Actor: command.Actor{
			ID:      "user-c",
			GuildID: "guild-1",
			Granted: perm.NewSet(perm.KickMembers),
		},
	})

	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != auth.ReasonMissingCapability {
		t.Errorf("reason = %q", denied.Reason)
	}
	if invoked {
		t.Error("handler invoked despite denial")
	}

	recs := f.sink.all()
	if len(recs) != 1 {
		t.Fatalf("got %d audit records, want 1", len(recs))
	}
	if recs[0].Outcome != audit.OutcomeDenied || recs[0].Reason != auth.ReasonMissingCapability {
		t.Errorf("record = %v/%v", recs[0].Outcome, recs[0].Reason)
	}
}

func TestHandlerErrorAudited(t *testing.T) {
	boom := errors.New("platform said no")
	f := newFixture(t, banDef(func(_ context.Context, _ *command.Invocation) (*command.Result, error) {
		return nil, boom
	}))

	_, err := f.d.Dispatch(context.Background(), adminInvocation("ban"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}

	recs := f.sink.all()
	if len(recs) != 1 {
		t.Fatalf("got %d audit records, want 1", len(recs))
	}
	if recs[0].Outcome != audit.OutcomeError || recs[0].Reason != "platform said no" {
		t.Errorf("record = %v/%q", recs[0].Outcome, recs[0].Reason)
	}
}

func TestHandlerPanicAudited(t *testing.T) {
	f := newFixture(t, banDef(func(_ context.Context, _ *command.Invocation) (*command.Result, error) {
		panic("oh no")
	}))

	_, err := f.d.Dispatch(context.Background(), adminInvocation("ban"))
	if err == nil {
		t.Fatal("panicking handler returned no error")
	}

	recs := f.sink.all()
	if len(recs) != 1 || recs[0].Outcome != audit.OutcomeError {
		t.Fatalf("panic not audited as error: %v", recs)
	}
}

func TestHandlerTimeout(t *testing.T) {
	f := newFixture(t, banDef(func(ctx context.Context, _ *command.Invocation) (*command.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	f.d.Timeout = 10 * time.Millisecond

	_, err := f.d.Dispatch(context.Background(), adminInvocation("ban"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	recs := f.sink.all()
	if len(recs) != 1 {
		t.Fatalf("got %d audit records, want 1", len(recs))
	}
	if recs[0].Reason != ReasonTimeout {
		t.Errorf("reason = %q, want %q", recs[0].Reason, ReasonTimeout)
	}
}

func TestSinkFailureDoesNotChangeOutcome(t *testing.T) {
	f := newFixture(t, banDef(nil))
	f.sink.fail = errors.New("sink down")

	res, err := f.d.Dispatch(context.Background(), adminInvocation("ban"))
	if err != nil {
		t.Fatalf("sink failure reversed the outcome: %v", err)
	}
	if res == nil || res.Content != "banned" {
		t.Errorf("result lost: %v", res)
	}
}

func TestExactlyOneRecordPerInvocation(t *testing.T) {
	f := newFixture(t, banDef(nil))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.d.Dispatch(context.Background(), adminInvocation("ban"))
		}()
	}
	wg.Wait()

	if got := len(f.sink.all()); got != n {
		t.Errorf("%d invocations produced %d records", n, got)
	}
}

func adminInvocation(cmd string) *command.Invocation {
	return &command.Invocation{
		Command: cmd,
		Actor: command.Actor{
			ID:      "admin",
			GuildID: "guild-1",
			Granted: perm.NewSet(perm.Administrator),
		},
	}
}
