package session

import "github.com/flowwed/emily/pkg/llm"

// DefaultMaxHistory is the default bound on turns kept per session.
const DefaultMaxHistory = 40

// Trim bounds a history to max turns. When the history is longer, the
// result is element 0 (the system preamble) followed by the trailing
// (max-1) turns, in order. Histories at or under the bound come back
// unchanged.
func Trim(history []llm.Message, max int) []llm.Message {
	if max < 1 || len(history) <= max {
		return history
	}

	out := make([]llm.Message, 0, max)
	out = append(out, history[0])
	out = append(out, history[len(history)-(max-1):]...)
	return out
}
