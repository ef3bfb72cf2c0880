package cache

import (
	"sync"
	"time"
)

// Store is a small versioned map: every value is written under a
// monotonically increasing generation, and writes from a superseded
// generation are rejected, so a slow reload can never clobber a newer
// snapshot.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	generation uint64
	value      interface{}
	storedAt   time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Put stores value under key if generation is not older than the current
// entry's. It reports whether the write was accepted.
func (s *Store) Put(key string, generation uint64, value interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[key]; ok && generation < current.generation {
		return false
	}

	s.entries[key] = entry{
		generation: generation,
		value:      value,
		storedAt:   time.Now(),
	}
	return true
}

// Get returns the value and its age, if present.
func (s *Store) Get(key string) (value interface{}, age time.Duration, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, 0, false
	}
	return e.value, time.Since(e.storedAt), true
}

// Invalidate removes a single key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Sweep evicts every entry older than maxAge and returns how many were
// removed.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for key, e := range s.entries {
		if e.storedAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
