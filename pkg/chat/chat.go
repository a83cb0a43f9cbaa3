// Package chat implements the turn orchestrator: the request-handling
// sequence that ties identity resolution, memory, sessions, the completion
// engine, fact extraction, and the transcript together into one reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/extract"
	"github.com/flowwed/emily/pkg/llm"
	"github.com/flowwed/emily/pkg/memory"
	"github.com/flowwed/emily/pkg/prompt"
	"github.com/flowwed/emily/pkg/session"
	"github.com/flowwed/emily/pkg/transcript"
)

// Identity defaults applied when a request omits a component.
const (
	DefaultToken     = "dev"
	DefaultPage      = "Entry"
	DefaultSessionID = "default"
)

// Step errors. The API boundary maps each kind to a response; completion
// failures surface as llm.ErrCompletion from the engine itself.
var (
	// ErrStore marks a memory store failure.
	ErrStore = errors.New("memory store failure")

	// ErrSession marks a session registry failure.
	ErrSession = errors.New("session store failure")
)

// Input is one inbound chat turn, pre-defaulting.
type Input struct {
	Token     string
	Page      string
	SessionID string
	Text      string
}

// Options configures an Orchestrator.
type Options struct {
	// Engine is the completion backend. Required.
	Engine llm.Engine

	// Memories is the durable memory store. Required.
	Memories memory.Store

	// Sessions is the conversation registry. Required.
	Sessions session.Store

	// Prompts serves the base system prompt. Required.
	Prompts *prompt.Loader

	// Extractors run after each normal exchange, in order. Optional.
	Extractors []extract.Extractor

	// Transcript records every turn. Defaults to transcript.Nop.
	Transcript transcript.Recorder

	// MaxHistory bounds turns kept per session. Defaults to
	// session.DefaultMaxHistory.
	MaxHistory int

	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Orchestrator handles chat turns. Safe for concurrent use; requests for
// the same token are serialized so load-merge-save cycles cannot lose
// updates.
type Orchestrator struct {
	engine     llm.Engine
	memories   memory.Store
	sessions   session.Store
	prompts    *prompt.Loader
	extractors []extract.Extractor
	transcript transcript.Recorder
	maxHistory int
	locks      *memory.Lockset
	logger     *zap.Logger
}

// New creates an orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Engine == nil {
		return nil, errors.New("completion engine is required")
	}
	if opts.Memories == nil {
		return nil, errors.New("memory store is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Prompts == nil {
		return nil, errors.New("prompt loader is required")
	}

	if opts.Transcript == nil {
		opts.Transcript = transcript.Nop{}
	}
	if opts.MaxHistory < 1 {
		opts.MaxHistory = session.DefaultMaxHistory
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Orchestrator{
		engine:     opts.Engine,
		memories:   opts.Memories,
		sessions:   opts.Sessions,
		prompts:    opts.Prompts,
		extractors: opts.Extractors,
		transcript: opts.Transcript,
		maxHistory: opts.MaxHistory,
		locks:      memory.NewLockset(),
		logger:     opts.Logger,
	}, nil
}

// Respond runs one chat turn end to end and returns the assistant reply.
func (o *Orchestrator) Respond(ctx context.Context, in Input) (string, error) {
	token, page, sid := resolveIdentity(in)

	unlock := o.locks.Lock(token)
	defer unlock()

	// Load memory; an unknown token gets the empty document, persisted
	// immediately so a durable row exists from first contact.
	doc, found, err := o.memories.Load(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: loading %q: %v", ErrStore, token, err)
	}
	if !found {
		if err := o.memories.Save(ctx, token, doc); err != nil {
			return "", fmt.Errorf("%w: touching %q: %v", ErrStore, token, err)
		}
	}

	key := session.Key{Token: token, Page: page, SessionID: sid}
	preamble := prompt.Preamble(o.prompts.Base(), page, doc)
	history, err := o.sessions.GetOrCreate(ctx, key, llm.NewMessage(llm.RoleSystem, preamble))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSession, err)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return o.greet(ctx, key, history, doc)
	}

	history = append(history, llm.NewMessage(llm.RoleUser, text))
	o.record(ctx, key, llm.RoleUser, text)

	var reply string
	if strings.Contains(strings.ToLower(text), "remember the country") {
		reply = countryRecall(doc)
	} else {
		reply, err = o.engine.Complete(ctx, history)
		if err != nil {
			return "", err
		}
	}

	history = append(history, llm.NewMessage(llm.RoleAssistant, reply))
	history = session.Trim(history, o.maxHistory)
	if err := o.sessions.Put(ctx, key, history); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSession, err)
	}
	o.record(ctx, key, llm.RoleAssistant, reply)

	// The reply is settled; everything below is fact bookkeeping and must
	// not take the reply down with it.
	o.remember(ctx, key, doc, extract.Exchange{UserText: text, AssistantReply: reply})

	return reply, nil
}

// resolveIdentity applies the identity defaults.
func resolveIdentity(in Input) (token, page, sid string) {
	token = in.Token
	if token == "" {
		token = DefaultToken
	}

	page = strings.TrimSpace(in.Page)
	if page == "" {
		page = DefaultPage
	}

	sid = in.SessionID
	if sid == "" {
		sid = DefaultSessionID
	}

	return token, page, sid
}

// greet handles the empty-input branch: pick a greeting, append it as an
// assistant turn, and return it without a completion call.
func (o *Orchestrator) greet(ctx context.Context, key session.Key, history []llm.Message, doc memory.Document) (string, error) {
	greeting := Greeting(doc)

	history = append(history, llm.NewMessage(llm.RoleAssistant, greeting))
	history = session.Trim(history, o.maxHistory)
	if err := o.sessions.Put(ctx, key, history); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSession, err)
	}
	o.record(ctx, key, llm.RoleAssistant, greeting)

	return greeting, nil
}

// remember runs the extractors over the exchange, merges what they found
// into the memory document, persists a changed document, and refreshes the
// session preamble so the engine sees the new facts. Best-effort:
// failures are logged, never surfaced.
func (o *Orchestrator) remember(ctx context.Context, key session.Key, doc memory.Document, ex extract.Exchange) {
	var upd memory.Document
	for _, extractor := range o.extractors {
		found, err := extractor.Extract(ctx, ex)
		if err != nil {
			o.logger.Warn("fact extraction failed",
				zap.String("token", key.Token),
				zap.Error(err),
			)
			continue
		}
		upd = memory.Merge(upd, found)
	}

	merged := memory.Merge(doc, upd)
	if merged.Equal(doc) {
		return
	}

	if err := o.memories.Save(ctx, key.Token, merged); err != nil {
		o.logger.Error("memory save failed",
			zap.String("token", key.Token),
			zap.Error(err),
		)
		return
	}

	refreshed := prompt.Preamble(o.prompts.Base(), key.Page, merged)
	if err := o.sessions.Refresh(ctx, key, refreshed); err != nil {
		o.logger.Warn("preamble refresh failed",
			zap.String("token", key.Token),
			zap.String("page", key.Page),
			zap.Error(err),
		)
	}
}

// record writes one turn to the transcript, logging failures.
func (o *Orchestrator) record(ctx context.Context, key session.Key, role, content string) {
	err := o.transcript.Record(ctx, transcript.Entry{
		Token:     key.Token,
		Page:      key.Page,
		SessionID: key.SessionID,
		Role:      role,
		Content:   content,
	})
	if err != nil {
		o.logger.Warn("transcript record failed",
			zap.String("token", key.Token),
			zap.String("role", role),
			zap.Error(err),
		)
	}
}
