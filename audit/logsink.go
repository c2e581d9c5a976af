package audit

import (
	"context"

	"github.com/starshine-sys/warden/common/log"
	"go.uber.org/zap"
)

var _ Sink = (*LogSink)(nil)

// LogSink writes records to the global logger. It's the fallback sink when no
// database is configured, and is usually combined with other sinks through
// Multi.
type LogSink struct {
	log *zap.SugaredLogger
}

// NewLogSink returns a LogSink on the global logger.
func NewLogSink() *LogSink {
	return &LogSink{log: log.SugaredLogger.Named("audit")}
}

func (s *LogSink) Record(_ context.Context, rec Record) error {
	s.log.Infow("command invocation",
		"id", rec.ID,
		"command", rec.Command,
		"actor", rec.ActorID,
		"guild", rec.GuildID,
		"outcome", rec.Outcome,
		"reason", rec.Reason,
	)
	return nil
}
