package transcript

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

const messagesTable = "messages"

// SupabaseConfig holds Supabase connection configuration.
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// Supabase implements Recorder against a Supabase `messages` table.
type Supabase struct {
	client *supabase.Client
}

// NewSupabase creates a Supabase-backed recorder.
func NewSupabase(cfg SupabaseConfig) (*Supabase, error) {
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

	return &Supabase{client: client}, nil
}

// Record implements Recorder. An entry without an ID gets one.
func (s *Supabase) Record(_ context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, _, err := s.client.From(messagesTable).
		Insert(entry, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("recording %s turn for %q: %w", entry.Role, entry.Token, err)
	}

	return nil
}

// Close implements Recorder.
func (s *Supabase) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// Compile-time check that Supabase implements Recorder.
var _ Recorder = (*Supabase)(nil)
