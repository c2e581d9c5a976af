// Package postgres implements the guild configuration store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/store"

	migrate "github.com/rubenv/sql-migrate"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var _ store.Store = (*Store)(nil)

// Store is a guild configuration store backed by a pgx pool, with a short
// in-process read cache. The pool is exported so the audit sink and the web
// API can share it.
type Store struct {
	Pool *pgxpool.Pool

	cache *ttlcache.Cache

	// per-guild update locks; updates to different guilds are independent
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New connects to postgres and, if autoMigrate is set, runs any pending
// migrations first.
func New(url string, autoMigrate bool) (*Store, error) {
	if autoMigrate {
		if err := RunMigrations(url); err != nil {
			return nil, errors.Wrap(err, "running migrations")
		}
	}

	pool, err := pgxpool.Connect(context.Background(), url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}

	cache := ttlcache.NewCache()
	_ = cache.SetTTL(time.Minute)
	cache.SkipTTLExtensionOnHit(true)

	return &Store{
		Pool:  pool,
		cache: cache,
		locks: map[string]*sync.Mutex{},
	}, nil
}

// Close closes the pool and the read cache.
func (s *Store) Close() {
	_ = s.cache.Close()
	s.Pool.Close()
}

func (s *Store) Get(ctx context.Context, guildID string) (store.GuildConfig, error) {
	if v, err := s.cache.Get(guildID); err == nil {
		return v.(store.GuildConfig).Clone(), nil
	}

	c, err := s.fetch(ctx, guildID)
	if err != nil {
		return store.GuildConfig{}, err
	}

	_ = s.cache.Set(guildID, c)
	return c.Clone(), nil
}

func (s *Store) Update(ctx context.Context, guildID string, m store.Mutation) (store.GuildConfig, error) {
	mu := s.lockFor(guildID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.fetch(ctx, guildID)
	if err != nil {
		return store.GuildConfig{}, err
	}

	if err := m.Apply(&c); err != nil {
		return store.GuildConfig{}, err
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return store.GuildConfig{}, errors.Wrap(err, "marshaling config")
	}

	q, args, err := sq.Update("guilds").
		Set("config", raw).
		Where("id = ?", guildID).
		ToSql()
	if err != nil {
		return store.GuildConfig{}, errors.Wrap(err, "building sql")
	}

	if _, err := s.Pool.Exec(ctx, q, args...); err != nil {
		return store.GuildConfig{}, errors.Wrap(err, "updating config")
	}

	// readers see either the old or the new snapshot, never a partial one
	_ = s.cache.Set(guildID, c)

	log.Debugf("guild %v: %v", guildID, m)
	return c.Clone(), nil
}

// fetch reads a guild's config, creating the default row on first access.
func (s *Store) fetch(ctx context.Context, guildID string) (store.GuildConfig, error) {
	c, err := s.selectConfig(ctx, guildID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return c, errors.Wrap(err, "getting config")
	}

	// first access: insert defaults. ON CONFLICT handles a concurrent insert
	// of the same guild.
	c = store.NewGuildConfig(guildID)

	raw, err := json.Marshal(c)
	if err != nil {
		return c, errors.Wrap(err, "marshaling config")
	}

	q, args, err := sq.Insert("guilds").
		Columns("id", "config").
		Values(guildID, raw).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return c, errors.Wrap(err, "building sql")
	}

	ct, err := s.Pool.Exec(ctx, q, args...)
	if err != nil {
		return c, errors.Wrap(err, "creating config")
	}

	if ct.RowsAffected() == 0 {
		// lost the race; read the winner's row
		if c, err = s.selectConfig(ctx, guildID); err != nil {
			return c, errors.Wrap(err, "getting config")
		}
	}
	return c, nil
}

func (s *Store) selectConfig(ctx context.Context, guildID string) (c store.GuildConfig, err error) {
	q, args, err := sq.Select("config").From("guilds").Where("id = ?", guildID).ToSql()
	if err != nil {
		return c, errors.Wrap(err, "building sql")
	}

	var raw []byte
	if err := s.Pool.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		return c, err
	}

	if err := json.Unmarshal(raw, &c); err != nil {
		return c, errors.Wrap(err, "unmarshaling config")
	}
	return c, nil
}

func (s *Store) lockFor(guildID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[guildID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[guildID] = mu
	}
	return mu
}

//go:embed migrations
var fs embed.FS

// RunMigrations runs all of the migrations in migrations/.
func RunMigrations(url string) (err error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	// we close this because we end up using pgx's native driver for all other queries.
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return errors.Wrap(err, "pinging database")
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	migrate.SetTable("migration_history")

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		log.Debugf("Performed %v migrations!", n)
	}
	return nil
}
