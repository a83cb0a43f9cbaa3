package session

import (
	"context"
	"slices"
	"sync"

	"github.com/flowwed/emily/pkg/llm"
)

// InMemoryStore implements Store using an in-process map. Histories live
// for the process lifetime; there is no durability guarantee.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[Key][]llm.Message
}

// NewInMemoryStore creates an empty in-process session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[Key][]llm.Message)}
}

// GetOrCreate implements Store.
func (s *InMemoryStore) GetOrCreate(_ context.Context, key Key, seed llm.Message) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.sessions[key]
	if !ok {
		history = []llm.Message{seed}
		s.sessions[key] = history
	}

	// Hand out a copy so callers can append without racing other requests.
	return slices.Clone(history), nil
}

// Put implements Store.
func (s *InMemoryStore) Put(_ context.Context, key Key, history []llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = slices.Clone(history)
	return nil
}

// Refresh implements Store.
func (s *InMemoryStore) Refresh(_ context.Context, key Key, preamble string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.sessions[key]
	if !ok || len(history) == 0 {
		return ErrNotFound
	}

	history[0] = llm.NewMessage(llm.RoleSystem, preamble)
	return nil
}

// Evict implements Store.
func (s *InMemoryStore) Evict(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}

// Close implements Store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

// Compile-time check that InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)
