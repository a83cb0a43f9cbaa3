// Package extract derives structured fact updates from free conversation
// text. Two extractors exist: a deterministic rules pass (regex and
// set-membership, always cheap) and an LLM pass that asks the completion
// engine for a strict-JSON update document.
package extract

import (
	"context"
	"errors"

	"github.com/flowwed/emily/pkg/memory"
)

// ErrMalformed is returned when the LLM extractor's response is not the
// expected JSON document.
var ErrMalformed = errors.New("malformed extraction response")

// Exchange is the material an extractor works from: the latest user text
// and the assistant reply it produced.
type Exchange struct {
	UserText       string
	AssistantReply string
}

// Extractor maps an exchange to a partial memory update. The returned
// document carries only the facts found; everything else stays zero.
type Extractor interface {
	Extract(ctx context.Context, ex Exchange) (memory.Document, error)
}
