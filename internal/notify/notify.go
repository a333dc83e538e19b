// Package notify carries transient, dismissable user-facing messages:
// validation warnings, collaborator failures, submission outcomes.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

type Entry struct {
	Level   Level
	Message string
}

// Recorder accumulates notifications in order. The TUI drains it to render
// toasts; tests assert on it. Submission runs on a separate goroutine from
// the UI loop, so the entry list is mutex-guarded.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Success(msg string) { r.append(LevelSuccess, msg) }
func (r *Recorder) Warn(msg string)    { r.append(LevelWarn, msg) }
func (r *Recorder) Error(msg string)   { r.append(LevelError, msg) }

func (r *Recorder) append(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Drain returns and clears the accumulated entries.
func (r *Recorder) Drain() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.entries
	r.entries = nil
	return out
}

// Entries returns the accumulated entries without clearing them.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Logger adapts zap into a Notifier for headless runs.
type Logger struct {
	L *zap.Logger
}

func (n Logger) Success(msg string) { n.L.Info(msg) }
func (n Logger) Warn(msg string)    { n.L.Warn(msg) }
func (n Logger) Error(msg string)   { n.L.Error(msg) }
