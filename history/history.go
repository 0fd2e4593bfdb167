// Package history records the calls of an observable subject as a navigable
// command history.
package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// Entry is one recorded call.
type Entry struct {
	EventID   string
	Operation string
	Arguments []any
	Timestamp time.Time
}

// Recorder is an eventify.Observer that keeps an ordered history of the
// events it receives, oldest first, with a cursor for walking back and forth
// through it. Safe for concurrent use.
type Recorder struct {
	id      string
	limit   int
	entries []Entry
	cursor  int
	mu      sync.RWMutex
}

// New creates a Recorder assigned a unique UUIDv7 identifier. A positive
// limit bounds the history; the oldest entries are dropped first.
func New(limit int) *Recorder {
	return &Recorder{
		id:    uuid.Must(uuid.NewV7()).String(),
		limit: limit,
	}
}

func (r *Recorder) ID() string {
	return r.id
}

// OnEvent appends the event to the history and resets the cursor past the
// newest entry.
func (r *Recorder) OnEvent(_ context.Context, event eventify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{
		EventID:   event.ID,
		Operation: event.Operation,
		Arguments: event.Arguments(),
		Timestamp: event.Timestamp,
	})
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = slices.Delete(r.entries, 0, len(r.entries)-r.limit)
	}
	r.cursor = len(r.entries)
	return nil
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a defensive copy of the history, oldest first.
func (r *Recorder) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		copied[i] = e
		copied[i].Arguments = slices.Clone(e.Arguments)
	}
	return copied
}

// Previous moves the cursor one entry towards the oldest and returns that
// entry. At the oldest entry it stays put. Returns false if the history is
// empty.
func (r *Recorder) Previous() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return Entry{}, false
	}
	if r.cursor > 0 {
		r.cursor--
	}
	return r.entryAt(r.cursor), true
}

// Next moves the cursor one entry towards the newest and returns that entry.
// Moving past the newest entry returns false and leaves the cursor there, so
// the following Previous yields the newest entry again.
func (r *Recorder) Next() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cursor >= len(r.entries)-1 {
		r.cursor = len(r.entries)
		return Entry{}, false
	}
	r.cursor++
	return r.entryAt(r.cursor), true
}

// Clear resets the history.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.cursor = 0
}

func (r *Recorder) entryAt(i int) Entry {
	e := r.entries[i]
	e.Arguments = slices.Clone(e.Arguments)
	return e
}
