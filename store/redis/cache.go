// Package redis implements a read-through cache for guild configuration,
// wrapping any other store. Snapshots survive bot restarts, which matters
// for large deployments where every interaction needs the invoking guild's
// config.
package redis

import (
	"context"
	"encoding/json"

	"emperror.dev/errors"
	"github.com/mediocregopher/radix/v4"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/store"
)

var _ store.Store = (*Cache)(nil)

func guildConfigKey(guildID string) string {
	return "guildConfig:" + guildID
}

// Cache wraps an inner store with redis-backed config snapshots.
type Cache struct {
	client radix.Client
	inner  store.Store
}

// New connects to redis and returns a cache over inner.
func New(url string, inner store.Store) (*Cache, error) {
	client, err := (&radix.PoolConfig{}).New(context.Background(), "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Cache{client: client, inner: inner}, nil
}

func (c *Cache) Get(ctx context.Context, guildID string) (store.GuildConfig, error) {
	var raw []byte
	err := c.client.Do(ctx, radix.Cmd(&raw, "GET", guildConfigKey(guildID)))
	if err == nil && raw != nil {
		var cfg store.GuildConfig
		if err := json.Unmarshal(raw, &cfg); err == nil {
			return cfg, nil
		}
		// a snapshot we can't decode is just treated as a miss
		log.Warnf("discarding unreadable config snapshot for guild %v", guildID)
	}

	cfg, err := c.inner.Get(ctx, guildID)
	if err != nil {
		return store.GuildConfig{}, err
	}

	c.set(ctx, cfg)
	return cfg, nil
}

func (c *Cache) Update(ctx context.Context, guildID string, m store.Mutation) (store.GuildConfig, error) {
	// the inner store serializes updates per guild; we only refresh the
	// snapshot after it commits
	cfg, err := c.inner.Update(ctx, guildID, m)
	if err != nil {
		return store.GuildConfig{}, err
	}

	c.set(ctx, cfg)
	return cfg, nil
}

func (c *Cache) set(ctx context.Context, cfg store.GuildConfig) {
	b, err := json.Marshal(cfg)
	if err != nil {
		log.Errorf("marshaling config snapshot for guild %v: %v", cfg.GuildID, err)
		return
	}

	err = c.client.Do(ctx, radix.Cmd(nil, "SET", guildConfigKey(cfg.GuildID), string(b), "EX", "300"))
	if err != nil {
		// cache write failures only cost us a future read-through
		log.Warnf("writing config snapshot for guild %v: %v", cfg.GuildID, err)
	}
}
