package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// TraceObserver records intercepted calls as events on the span carried by
// the call's context. Calls without a recording span are ignored.
type TraceObserver struct{}

// NewTraceObserver creates a TraceObserver.
func NewTraceObserver() *TraceObserver {
	return &TraceObserver{}
}

func (o *TraceObserver) OnEvent(ctx context.Context, event eventify.Event) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	span.AddEvent(EventMessage,
		trace.WithTimestamp(event.Timestamp),
		trace.WithAttributes(
			attribute.String("eventify.operation", event.Operation),
			attribute.String("eventify.subject", event.Subject),
			attribute.String("eventify.event_id", event.ID),
			attribute.Int("eventify.arguments", event.Len()),
		),
	)
	return nil
}
