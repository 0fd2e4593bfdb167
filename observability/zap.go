package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// ZapObserver emits events to a zap.Logger with the same fields as
// SlogObserver.
type ZapObserver struct {
	logger *zap.Logger
	level  Level
}

// NewZapObserver creates a ZapObserver that emits to the given logger at
// LevelInfo. A nil logger falls back to zap.L().
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger, level: LevelInfo}
}

// WithLevel returns a copy of the observer that logs at level.
func (o *ZapObserver) WithLevel(level Level) *ZapObserver {
	return &ZapObserver{logger: o.logger, level: level}
}

func (o *ZapObserver) OnEvent(_ context.Context, event eventify.Event) error {
	logger := o.logger
	if logger == nil {
		logger = zap.L()
	}

	if ce := logger.Check(o.level.ZapLevel(), EventMessage); ce != nil {
		ce.Write(
			zap.String("operation", event.Operation),
			zap.String("subject", event.Subject),
			zap.String("event_id", event.ID),
			zap.Any("arguments", event.Arguments()),
		)
	}
	return nil
}
