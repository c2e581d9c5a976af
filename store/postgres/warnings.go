package postgres

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/georgysavva/scany/pgxscan"
)

// Warning is a single moderation warning issued to a guild member.
type Warning struct {
	ID          int64     `db:"id"`
	GuildID     string    `db:"guild_id"`
	UserID      string    `db:"user_id"`
	ModeratorID string    `db:"moderator_id"`
	Reason      string    `db:"reason"`
	Time        time.Time `db:"time"`
}

// AddWarning records a warning and returns the member's new warning count.
func (s *Store) AddWarning(ctx context.Context, guildID, userID, moderatorID, reason string) (count int64, err error) {
	q, args, err := sq.Insert("warnings").
		Columns("guild_id", "user_id", "moderator_id", "reason", "time").
		Values(guildID, userID, moderatorID, reason, time.Now().UTC()).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building sql")
	}

	if _, err := s.Pool.Exec(ctx, q, args...); err != nil {
		return 0, errors.Wrap(err, "inserting warning")
	}

	q, args, err = sq.Select("count(*)").From("warnings").
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building sql")
	}

	if err := s.Pool.QueryRow(ctx, q, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting warnings")
	}
	return count, nil
}

// Warnings returns a member's warnings, newest first.
func (s *Store) Warnings(ctx context.Context, guildID, userID string) (ws []Warning, err error) {
	q, args, err := sq.Select("*").From("warnings").
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		OrderBy("time desc").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	if err := pgxscan.Select(ctx, s.Pool, &ws, q, args...); err != nil {
		return nil, errors.Wrap(err, "getting warnings")
	}
	return ws, nil
}
