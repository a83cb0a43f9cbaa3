// Package session provides the volatile conversation registry: per-session
// turn histories keyed by (token, page, session id), with pluggable
// in-process and Redis backends.
//
// Histories are a cache, not the source of truth; the durable record is
// the memory document. A history's element 0 is always the system preamble;
// trimming and refreshing preserve that invariant.
package session

import (
	"context"
	"errors"

	"github.com/flowwed/emily/pkg/llm"
)

// Common errors for session store operations.
var (
	// ErrNotFound is returned by Refresh when no history exists for the key.
	ErrNotFound = errors.New("session not found")
)

// Key identifies one conversation history. Distinct pages and session ids
// for the same token get independent histories.
type Key struct {
	Token     string
	Page      string
	SessionID string
}

// String renders the key for backends that need a flat string form.
func (k Key) String() string {
	return k.Token + ":" + k.Page + ":" + k.SessionID
}

// Store is the injectable session registry. Implementations must be safe
// for concurrent use.
type Store interface {
	// GetOrCreate returns the history for a key, creating it with the given
	// seed (the system preamble turn) on first access. The returned slice is
	// the caller's to mutate; persist changes with Put.
	GetOrCreate(ctx context.Context, key Key, seed llm.Message) ([]llm.Message, error)

	// Put replaces the stored history for a key.
	Put(ctx context.Context, key Key, history []llm.Message) error

	// Refresh replaces the system preamble (element 0) of an existing
	// history, leaving all other turns in place. Returns ErrNotFound when
	// the key has no history.
	Refresh(ctx context.Context, key Key, preamble string) error

	// Evict removes the history for a key.
	Evict(ctx context.Context, key Key) error

	// Close releases store resources.
	Close() error
}
