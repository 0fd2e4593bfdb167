package observability

import (
	"context"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// MultiObserver fans out events to multiple observers as a single
// registration. Delivery stops at the first failing observer.
type MultiObserver struct {
	observers []eventify.Observer
}

// NewMultiObserver creates a MultiObserver that forwards events to all
// non-nil observers.
func NewMultiObserver(observers ...eventify.Observer) *MultiObserver {
	filtered := make([]eventify.Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event eventify.Event) error {
	for _, obs := range m.observers {
		if err := obs.OnEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
