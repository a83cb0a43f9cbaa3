// Package prompt owns the assistant's base system prompt and the preamble
// composition for new sessions. The base prompt ships embedded; an
// operator-supplied file can override it and is hot-reloaded on change so
// prompt edits apply without a restart.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/memory"
)

//go:embed default_prompt.txt
var defaultPrompt string

// Loader serves the current base prompt. Safe for concurrent use.
type Loader struct {
	mu      sync.RWMutex
	base    string
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewLoader creates a loader. With an empty path the embedded default is
// used and nothing is watched. With a path, the file is read now and
// re-read whenever it changes.
func NewLoader(path string, logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loader{base: strings.TrimSpace(defaultPrompt), path: path, logger: logger}
	if path == "" {
		return l, nil
	}

	if err := l.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating prompt watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching prompt file: %w", err)
	}
	l.watcher = watcher

	go l.watch()

	return l, nil
}

// Base returns the current base prompt text.
func (l *Loader) Base() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.base
}

// Close stops the file watcher, if any.
func (l *Loader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

func (l *Loader) reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("reading prompt file: %w", err)
	}

	l.mu.Lock()
	l.base = strings.TrimSpace(string(data))
	l.mu.Unlock()

	return nil
}

func (l *Loader) watch() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := l.reload(); err != nil {
					l.logger.Warn("prompt reload failed",
						zap.String("path", l.path),
						zap.Error(err),
					)
					continue
				}
				l.logger.Info("prompt reloaded", zap.String("path", l.path))
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("prompt watcher error", zap.Error(err))
		}
	}
}

// Preamble composes the system preamble for a new session: the base
// prompt, a sentence naming the page the user is on, and, when any facts
// are known, a serialized snapshot of the memory document so the engine
// can reference them without a second round-trip.
func Preamble(base, page string, doc memory.Document) string {
	var b strings.Builder
	b.WriteString(base)
	fmt.Fprintf(&b, "\n\nThe user is currently on the '%s' page of FloWWed Studio.", page)

	if doc.HasAny() {
		b.WriteString("\n\nKnown facts about this user, from memory:\n")
		b.WriteString(doc.Snapshot())
	}

	return b.String()
}
