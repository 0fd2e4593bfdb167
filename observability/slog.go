package observability

import (
	"context"
	"log/slog"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// SlogObserver emits events to a slog.Logger. EventMessage becomes the log
// message; operation, subject, event ID and arguments are attributes.
type SlogObserver struct {
	logger *slog.Logger
	level  Level
}

// NewSlogObserver creates a SlogObserver that emits to the given logger at
// LevelInfo.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger, level: LevelInfo}
}

// WithLevel returns a copy of the observer that logs at level.
func (o *SlogObserver) WithLevel(level Level) *SlogObserver {
	return &SlogObserver{logger: o.logger, level: level}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event eventify.Event) error {
	o.logger.LogAttrs(ctx, o.level.SlogLevel(), EventMessage,
		slog.String("operation", event.Operation),
		slog.String("subject", event.Subject),
		slog.String("event_id", event.ID),
		slog.Any("arguments", event.Arguments()),
	)
	return nil
}
