// Package audit defines the append-only record of command invocation
// outcomes, and the sinks those records are written to.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal state of an invocation.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
	OutcomeError   Outcome = "error"
)

// Record is one invocation outcome. Records are immutable once created;
// retention is the sink's concern, never this package's.
type Record struct {
	ID      uuid.UUID `json:"id"`
	Time    time.Time `json:"time"`
	ActorID string    `json:"actor_id"`
	GuildID string    `json:"guild_id"`
	Command string    `json:"command"`
	Outcome Outcome   `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
}

// New returns a record stamped with a fresh ID and the current time.
func New(actorID, guildID, cmd string, outcome Outcome, reason string) Record {
	return Record{
		ID:      uuid.New(),
		Time:    time.Now().UTC(),
		ActorID: actorID,
		GuildID: guildID,
		Command: cmd,
		Outcome: outcome,
		Reason:  reason,
	}
}

// Sink receives records. A sink failure must never block or reverse an
// already-decided command outcome; the dispatcher logs it and moves on.
type Sink interface {
	Record(ctx context.Context, rec Record) error
}

// Multi fans records out to several sinks, returning the first error after
// all sinks have been tried.
type Multi []Sink

var _ Sink = (Multi)(nil)

func (m Multi) Record(ctx context.Context, rec Record) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
