// Package sqlite provides a SQLite-backed implementation of memory.Store
// for local development and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flowwed/emily/pkg/memory"
)

// Config controls SQLite initialization.
type Config struct {
	// Path is the database file path. Required.
	Path string
}

// Store implements memory.Store on a local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and ensures the schema exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS memories (
        token TEXT PRIMARY KEY,
        data TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Load implements memory.Store.
func (s *Store) Load(ctx context.Context, token string) (memory.Document, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM memories WHERE token = ?`, token).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return memory.Document{}, false, nil
	}
	if err != nil {
		return memory.Document{}, false, fmt.Errorf("loading memory for %q: %w", token, err)
	}

	var doc memory.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return memory.Document{}, false, fmt.Errorf("decoding memory for %q: %w", token, err)
	}

	return doc, true, nil
}

// Save implements memory.Store.
func (s *Store) Save(ctx context.Context, token string, doc memory.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding memory for %q: %w", token, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO memories (token, data, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(token) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		token, string(raw))
	if err != nil {
		return fmt.Errorf("saving memory for %q: %w", token, err)
	}

	return nil
}

// Close implements memory.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Compile-time check that Store implements memory.Store.
var _ memory.Store = (*Store)(nil)
