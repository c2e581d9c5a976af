// Package memory implements an in-memory guild configuration store. It's
// used in tests and as a fallback when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/starshine-sys/warden/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	configs map[string]store.GuildConfig
}

// New returns an empty store.
func New() *Store {
	return &Store{configs: map[string]store.GuildConfig{}}
}

func (s *Store) Get(_ context.Context, guildID string) (store.GuildConfig, error) {
	s.mu.RLock()
	c, ok := s.configs[guildID]
	s.mu.RUnlock()
	if ok {
		return c.Clone(), nil
	}

	// first access: create the default config
	s.mu.Lock()
	defer s.mu.Unlock()

	// re-check, another goroutine may have won the race
	if c, ok = s.configs[guildID]; !ok {
		c = store.NewGuildConfig(guildID)
		s.configs[guildID] = c
	}
	return c.Clone(), nil
}

func (s *Store) Update(_ context.Context, guildID string, m store.Mutation) (store.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.configs[guildID]
	if !ok {
		c = store.NewGuildConfig(guildID)
	}

	// apply to a clone so a failed mutation leaves the stored config untouched
	next := c.Clone()
	if err := m.Apply(&next); err != nil {
		return store.GuildConfig{}, err
	}

	s.configs[guildID] = next
	return next.Clone(), nil
}
