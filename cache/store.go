// Package cache provides the local and distributed caching
// interceptors.  Caching is best-effort: concurrent misses for the
// same key may each compute and each write, last write wins; no
// single-flight de-duplication is attempted.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the cache-backend capability.  Implementations supply
// their own thread-safety; interceptors add no locking around them.
type Store interface {
	Get(ctx context.Context, key string) (value any, ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type entry struct {
	value   any
	expires time.Time
}

// MemoryStore is an in-process Store with per-entry expiration.
// Expired entries are dropped on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// WithClock overrides the time source, mainly for tests.
func (s *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	s.clock = clock
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.clock().After(e.expires) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.expires == e.expires {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expires: s.clock().Add(ttl)}
	s.mu.Unlock()
	return nil
}
