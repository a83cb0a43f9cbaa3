package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowwed/emily/pkg/llm"
	"github.com/flowwed/emily/pkg/memory"
)

const llmPromptTemplate = `You extract durable wedding-planning facts from one conversation exchange. Return ONLY JSON.

Only record facts the USER stated about themselves or their wedding.
Never record the assistant's own name, persona, or suggestions as user facts.
Omit any field the user did not state. Do not guess.

JSON format (all fields optional):
{
  "profile": {"name": "string"},
  "wedding": {"country": "string", "city": "string", "date": "string", "style": "string", "guest_count": 0, "budget_range": "string", "venue_shortlist": ["string"]}
}

User said:
%s

Assistant replied:
%s`

// LLM asks the completion engine for a strict-JSON update document derived
// from the latest exchange.
type LLM struct {
	engine llm.Engine
}

// NewLLM creates an LLM-backed extractor on the given engine.
func NewLLM(engine llm.Engine) *LLM {
	return &LLM{engine: engine}
}

// Extract implements Extractor. Engine failures pass through wrapped in
// llm.ErrCompletion; a response that is not the expected JSON document
// returns ErrMalformed.
func (e *LLM) Extract(ctx context.Context, ex Exchange) (memory.Document, error) {
	prompt := fmt.Sprintf(llmPromptTemplate, ex.UserText, ex.AssistantReply)

	raw, err := e.engine.CompleteJSON(ctx, []llm.Message{
		llm.NewMessage(llm.RoleUser, prompt),
	})
	if err != nil {
		return memory.Document{}, err
	}

	// Some providers wrap the object in a markdown fence despite JSON mode.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var upd memory.Document
	if err := json.Unmarshal([]byte(raw), &upd); err != nil {
		return memory.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Mode stays with the deterministic pass; never trust the model with it.
	upd.Mode = ""

	return upd, nil
}

// Compile-time check that LLM implements Extractor.
var _ Extractor = (*LLM)(nil)
