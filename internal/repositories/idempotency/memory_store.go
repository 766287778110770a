package idempotency

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// sweepInterval bounds how often Reserve scans the whole map for expired keys.
const sweepInterval = time.Minute

type entry struct {
	result    string
	expiresAt time.Time
}

// MemoryStore implements IdempotencyStore with a map. It suits single-instance
// deployments and tests. Reserve drops expired keys, at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty in-memory idempotency store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}
	if e, exists := s.entries[key]; exists && now.Before(e.expiresAt) {
		return false, e.result, nil
	}
	s.entries[key] = entry{expiresAt: now.Add(ttl)}
	return true, "", nil
}

// sweep removes expired entries. The caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Complete(_ context.Context, key, result string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{result: result, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

var _ portsrepo.IdempotencyStore = (*MemoryStore)(nil)
