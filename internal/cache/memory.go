package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-process ForecastStore. Good enough for a
// single instance; multi-instance deployments use the redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, itemID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[itemID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Put(_ context.Context, itemID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[itemID] = entry
	return nil
}

func (s *MemoryStore) EvictOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if entry.CachedAt.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted, nil
}
