package observability

import (
	"context"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// NoOpObserver discards all events with zero overhead.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event eventify.Event) error { return nil }
