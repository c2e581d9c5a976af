package audit

import (
	"context"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4/pgxpool"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var _ Sink = (*PGSink)(nil)

// PGSink appends records to the invocations table. It shares the pool with
// the postgres guild config store.
type PGSink struct {
	pool *pgxpool.Pool
}

// NewPGSink returns a sink on the given pool. The invocations table is
// created by the store/postgres migrations.
func NewPGSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

func (s *PGSink) Record(ctx context.Context, rec Record) error {
	sql, args, err := sq.Insert("invocations").
		Columns("id", "time", "actor_id", "guild_id", "command", "outcome", "reason").
		Values(rec.ID, rec.Time, rec.ActorID, rec.GuildID, rec.Command, string(rec.Outcome), rec.Reason).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	_, err = s.pool.Exec(ctx, sql, args...)
	return errors.Wrap(err, "inserting record")
}

// maxRecent caps a single Recent read. The web API advertises the same
// limit to clients.
const maxRecent = 200

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxRecent {
		return maxRecent
	}
	return limit
}

// Recent returns up to limit records for a guild, newest first. Used by the
// web API.
func (s *PGSink) Recent(ctx context.Context, guildID string, limit int) ([]Record, error) {
	limit = clampLimit(limit)

	sql, args, err := sq.Select("id", "time", "actor_id", "guild_id", "command", "outcome", "reason").
		From("invocations").
		Where("guild_id = ?", guildID).
		OrderBy("time DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	var recs []Record
	err = pgxscan.Select(ctx, s.pool, &recs, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting records")
	}
	return recs, nil
}
