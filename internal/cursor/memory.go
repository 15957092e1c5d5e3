package cursor

import (
	"context"
	"sync"
)

// MemoryStore keeps cursors in memory, for tests and ephemeral runs.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]State)}
}

func (s *MemoryStore) EmptyStartAllowed() bool {
	return true
}

func (s *MemoryStore) Load(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.m[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return state, nil
}

func (s *MemoryStore) Store(_ context.Context, id string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = state
	return nil
}
