// Package llm defines the provider-agnostic completion engine interface and
// the message types shared by the session registry and the turn orchestrator.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrCompletion is returned when the completion engine fails for any reason
// (network, rate limit, malformed response). Callers match it with errors.Is.
var ErrCompletion = errors.New("completion engine failure")

// Message represents a single role-tagged turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with the given role and text content.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// Engine is a text-completion backend. Given an ordered conversation it
// returns one assistant turn. Implementations wrap failures in
// ErrCompletion.
type Engine interface {
	// Complete sends the conversation and returns the assistant reply text.
	Complete(ctx context.Context, messages []Message) (string, error)

	// CompleteJSON is Complete with the provider instructed to emit a single
	// strict-JSON object. Used by the LLM fact extractor.
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
}
