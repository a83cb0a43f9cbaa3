// Package supabase provides a Supabase-backed implementation of
// memory.Store. Documents live in a `memories` table with one row per
// token (token text primary key, data jsonb).
package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/flowwed/emily/pkg/memory"
)

const memoriesTable = "memories"

// Config holds Supabase connection configuration.
type Config struct {
	URL    string
	APIKey string
}

// Store implements memory.Store using Supabase.
type Store struct {
	client *supabase.Client
}

// row mirrors one record of the memories table.
type row struct {
	Token string          `json:"token"`
	Data  memory.Document `json:"data"`
}

// NewStore creates a new Supabase-backed store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Store{client: client}, nil
}

// Load implements memory.Store.
func (s *Store) Load(_ context.Context, token string) (memory.Document, bool, error) {
	var rows []row
	_, err := s.client.From(memoriesTable).
		Select("token,data", "", false).
		Eq("token", token).
		ExecuteTo(&rows)
	if err != nil {
		return memory.Document{}, false, fmt.Errorf("loading memory for %q: %w", token, err)
	}

	if len(rows) == 0 {
		return memory.Document{}, false, nil
	}

	return rows[0].Data, true, nil
}

// Save implements memory.Store.
func (s *Store) Save(_ context.Context, token string, doc memory.Document) error {
	_, _, err := s.client.From(memoriesTable).
		Upsert(row{Token: token, Data: doc}, "token", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("saving memory for %q: %w", token, err)
	}

	return nil
}

// Close implements memory.Store.
func (s *Store) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// Compile-time check that Store implements memory.Store.
var _ memory.Store = (*Store)(nil)
