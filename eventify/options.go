package eventify

import (
	"fmt"
	"log/slog"
	"maps"
)

// Delivery selects how observer failures are handled.
type Delivery string

const (
	// DeliveryStop aborts notification at the first observer failure and
	// returns it to the caller without invoking the original operation.
	DeliveryStop Delivery = "stop"
	// DeliveryIsolate notifies every observer, logs their failures, and
	// invokes the original operation.
	DeliveryIsolate Delivery = "isolate"
)

// ParseDelivery maps a configuration string to a Delivery. The empty string
// selects DeliveryStop.
func ParseDelivery(s string) (Delivery, error) {
	switch Delivery(s) {
	case "", DeliveryStop:
		return DeliveryStop, nil
	case DeliveryIsolate:
		return DeliveryIsolate, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidDelivery, s)
	}
}

// Option configures a Subject during Wrap.
type Option func(*Subject)

// WithMarkers supplies the marker side table consulted by Policy.MarkedOnly.
func WithMarkers(m Markers) Option {
	return func(s *Subject) { s.markers = maps.Clone(m) }
}

// WithDelivery overrides the default DeliveryStop.
func WithDelivery(d Delivery) Option {
	return func(s *Subject) { s.delivery = d }
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Subject) { s.logger = l }
}

// WithRegistry shares an existing observer registry with the subject.
func WithRegistry(r *Registry) Option {
	return func(s *Subject) { s.registry = r }
}
