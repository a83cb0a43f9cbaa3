package memory

import (
	"context"
	"sync"
)

// Store persists one memory document per token.
// A missing row is not an error: Load returns a zero Document and false.
type Store interface {
	// Load retrieves the document for a token. The bool reports whether a
	// stored row existed; when false the returned document is the zero value.
	Load(ctx context.Context, token string) (Document, bool, error)

	// Save upserts the document for a token.
	Save(ctx context.Context, token string, doc Document) error

	// Close releases store resources.
	Close() error
}

// Lockset serializes load-merge-save cycles per token so concurrent
// requests for the same token cannot lose each other's updates.
type Lockset struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockset creates an empty lockset.
func NewLockset() *Lockset {
	return &Lockset{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a token and returns its unlock function.
// One mutex is kept per distinct token for the process lifetime.
func (s *Lockset) Lock(token string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[token]
	if !ok {
		l = &sync.Mutex{}
		s.locks[token] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
