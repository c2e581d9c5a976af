// Package dispatch routes inbound invocations through the registry, the
// authorizer, and the registered handler, and emits exactly one audit record
// per invocation.
//
// Each invocation moves through received → resolved → authorized → executing
// → completed, with three short-circuit exits: unknown command (pre-audit),
// rejected (audited as denied), and failed (audited as error). The dispatcher
// holds no shared mutable state; invocations run concurrently, one per
// inbound event.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/warden/audit"
	"github.com/starshine-sys/warden/auth"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/stats"
	"github.com/starshine-sys/warden/store"
)

// ErrUnknownCommand is returned for invocations that don't resolve to a
// registered command. No full audit record is emitted for these.
const ErrUnknownCommand = errors.Sentinel("unknown command")

// ReasonTimeout is the audit reason for handlers that exhaust their
// execution budget.
const ReasonTimeout = "timeout"

// DefaultTimeout is the execution budget applied when none is configured.
// Handlers make platform calls, so this has to accommodate slow API
// round-trips without letting an invocation hang forever.
const DefaultTimeout = 30 * time.Second

// DeniedError is returned to the caller when authorization fails. The
// matching audit record has already been written by the time the caller
// sees this.
type DeniedError struct {
	Command string
	Reason  string
	Missing []perm.Capability
}

func (e *DeniedError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%v denied: %v", e.Command, e.Reason)
	}

	missing := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		missing[i] = string(c)
	}
	return fmt.Sprintf("%v denied: %v (missing: %v)", e.Command, e.Reason, strings.Join(missing, ", "))
}

// Dispatcher wires the registry, store, authorizer and audit sink together.
type Dispatcher struct {
	Registry *command.Holder
	Store    store.Store
	Auth     *auth.Authorizer
	Sink     audit.Sink

	// Stats is optional; a nil client is a no-op.
	Stats *stats.Client

	// Timeout bounds each handler invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New returns a dispatcher over the given collaborators.
func New(reg *command.Holder, st store.Store, a *auth.Authorizer, sink audit.Sink) *Dispatcher {
	return &Dispatcher{
		Registry: reg,
		Store:    st,
		Auth:     a,
		Sink:     sink,
	}
}

// Dispatch executes one invocation. On a denial it returns *DeniedError; on
// handler failure the handler's error is returned wrapped with the command
// name and guild ID. Whatever the outcome past resolution, exactly one audit
// record is emitted, after the outcome is decided.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *command.Invocation) (*command.Result, error) {
	def, err := d.Registry.Load().Lookup(inv.Command)
	if err != nil {
		// minimal trace only: don't audit commands that don't exist
		log.Debugf("unknown command %q from %v", inv.Command, inv.Actor.ID)
		return nil, errors.WithMessagef(ErrUnknownCommand, "%q", inv.Command)
	}

	var cfg store.GuildConfig
	if def.GuildScoped && inv.Actor.GuildID != "" {
		cfg, err = d.Store.Get(ctx, inv.Actor.GuildID)
		if err != nil {
			err = errors.Wrapf(err, "fetching config for command %q in guild %v", inv.Command, inv.Actor.GuildID)
			d.record(inv, audit.OutcomeError, err.Error())
			return nil, err
		}
	}

	decision := d.Auth.Authorize(def, inv.Actor, cfg)
	if !decision.Allowed {
		d.record(inv, audit.OutcomeDenied, decision.Reason)
		return nil, &DeniedError{
			Command: inv.Command,
			Reason:  decision.Reason,
			Missing: decision.Missing,
		}
	}

	inv.Config = cfg

	res, err := d.execute(ctx, def, inv)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		d.record(inv, audit.OutcomeError, reason)
		return nil, errors.Wrapf(err, "executing command %q in guild %v", inv.Command, inv.Actor.GuildID)
	}

	d.record(inv, audit.OutcomeAllowed, "")
	return res, nil
}

// execute runs the handler under the execution budget, converting panics
// into errors. A moderation action is not safely retryable from here, so
// failures are never retried.
func (d *Dispatcher) execute(ctx context.Context, def *command.Definition, inv *command.Invocation) (res *command.Result, err error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panic: %v", r)
		}
	}()

	res, err = def.Exec(hctx, inv)
	if err == nil && hctx.Err() != nil {
		// the handler returned but blew its budget; treat as a timeout so
		// the caller knows the result may be partial
		err = hctx.Err()
	}
	return res, err
}

// record emits the invocation's audit record. Recording uses a fresh context
// so that cancelled invocations are still audited, and a failing sink is
// logged but never affects the already-decided outcome.
func (d *Dispatcher) record(inv *command.Invocation, outcome audit.Outcome, reason string) {
	d.Stats.IncCommand(string(outcome))

	if d.Sink == nil {
		return
	}

	rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := audit.New(inv.Actor.ID, inv.Actor.GuildID, inv.Command, outcome, reason)
	if err := d.Sink.Record(rctx, rec); err != nil {
		log.Errorf("recording invocation %v (%v %v): %v", rec.ID, rec.Command, rec.Outcome, err)
	}
}
