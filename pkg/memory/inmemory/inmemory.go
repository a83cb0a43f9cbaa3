// Package inmemory provides an in-process implementation of memory.Store,
// used in tests and as a zero-setup local driver.
package inmemory

import (
	"context"
	"sync"

	"github.com/flowwed/emily/pkg/memory"
)

// Store implements memory.Store using an in-process map.
type Store struct {
	mu   sync.RWMutex
	docs map[string]memory.Document
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{docs: make(map[string]memory.Document)}
}

// Load implements memory.Store.
func (s *Store) Load(_ context.Context, token string) (memory.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[token]
	return doc, ok, nil
}

// Save implements memory.Store.
func (s *Store) Save(_ context.Context, token string, doc memory.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[token] = doc
	return nil
}

// Close implements memory.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	return nil
}

// Compile-time check that Store implements memory.Store.
var _ memory.Store = (*Store)(nil)
