// Package dedup enforces at-most-once handling of Telegram updates.
// Telegram redelivers updates that were not confirmed in time; a handler
// must not run twice for the same callback query or message.
package dedup

import (
	"context"
	"sync"
	"time"
)

// Store claims update keys. The first Claim for a key within its TTL wins;
// later claims report the key as already taken.
type Store interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// MemoryStore keeps claims in process memory. It is the default backend and
// loses claims on restart, which is acceptable: the pump also drops the
// pending backlog on start.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Claim records key for ttl. Expired entries are purged lazily on access.
func (s *MemoryStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, deadline := range s.entries {
		if now.After(deadline) {
			delete(s.entries, k)
		}
	}

	if deadline, ok := s.entries[key]; ok && now.Before(deadline) {
		return false, nil
	}

	s.entries[key] = now.Add(ttl)
	return true, nil
}
