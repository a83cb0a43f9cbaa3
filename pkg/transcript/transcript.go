// Package transcript provides the durable per-turn message log. Every
// user and assistant turn is recorded with its session coordinates so
// conversations can be audited after the volatile session cache is gone.
//
// Recording is best-effort: the orchestrator logs failures and moves on,
// a lost transcript row never fails a chat request.
package transcript

import "context"

// Entry is one recorded turn.
type Entry struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Page      string `json:"page"`
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

// Recorder persists transcript entries.
type Recorder interface {
	// Record persists one turn.
	Record(ctx context.Context, entry Entry) error

	// Close releases recorder resources.
	Close() error
}

// Nop is a Recorder that discards everything, for deployments without a
// transcript backend and for tests.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

// Close implements Recorder.
func (Nop) Close() error { return nil }

// Compile-time check that Nop implements Recorder.
var _ Recorder = Nop{}
