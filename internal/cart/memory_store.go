package cart

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu  sync.RWMutex
	ids IDList
}

// NewMemoryStore creates a store holding a copy of initial.
func NewMemoryStore(initial IDList) *MemoryStore {
	return &MemoryStore{ids: initial.Clone()}
}

// Read returns a copy of the stored list.
func (s *MemoryStore) Read(ctx context.Context) IDList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids.Clone()
}

// Write replaces the stored list with a copy of ids.
func (s *MemoryStore) Write(ctx context.Context, ids IDList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = ids.Clone()
	return nil
}
