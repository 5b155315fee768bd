package store

import (
	"context"
	"sync"
)

// MemoryStore keeps results in process memory. It is used when no database is configured.
type MemoryStore struct {
	results []MatchResult
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveResult(_ context.Context, r MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *MemoryStore) RecentResults(_ context.Context, limit int) ([]MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.results)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]MatchResult, 0, n)
	for i := len(s.results) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
