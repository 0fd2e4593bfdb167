package shell

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// Echo formats.
const (
	EchoText = "text"
	EchoJSON = "json"
)

// EventWriter is an observer that prints every event to a writer, one line
// per event.
type EventWriter struct {
	w      io.Writer
	format string
	mu     sync.Mutex
}

// NewEventWriter creates an EventWriter for the text or json format.
func NewEventWriter(w io.Writer, format string) (*EventWriter, error) {
	if format != EchoText && format != EchoJSON {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEcho, format)
	}
	return &EventWriter{w: w, format: format}, nil
}

func (ew *EventWriter) OnEvent(_ context.Context, event eventify.Event) error {
	line, err := ew.render(event)
	if err != nil {
		return err
	}

	ew.mu.Lock()
	defer ew.mu.Unlock()

	if _, err := fmt.Fprintln(ew.w, line); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (ew *EventWriter) render(event eventify.Event) (string, error) {
	if ew.format == EchoText {
		return fmt.Sprintf("[event] %s %v", event.Operation, event.Arguments()), nil
	}

	args := make([]*structpb.Value, 0, event.Len())
	for _, arg := range event.Arguments() {
		v, err := structpb.NewValue(arg)
		if err != nil {
			v = structpb.NewStringValue(fmt.Sprint(arg))
		}
		args = append(args, v)
	}

	record := &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":        structpb.NewStringValue(event.ID),
		"subject":   structpb.NewStringValue(event.Subject),
		"operation": structpb.NewStringValue(event.Operation),
		"timestamp": structpb.NewStringValue(event.Timestamp.Format(time.RFC3339Nano)),
		"arguments": structpb.NewListValue(&structpb.ListValue{Values: args}),
	}}

	data, err := protojson.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}
	return string(data), nil
}
