package eventify

import (
	"context"
	"reflect"
)

// Observer receives the events of instrumented calls. A non-nil error aborts
// or is collected by the delivery pass depending on the subject's Delivery.
type Observer interface {
	OnEvent(ctx context.Context, event Event) error
}

type funcObserver struct {
	fn func(ctx context.Context, event Event) error
}

func (o *funcObserver) OnEvent(ctx context.Context, event Event) error {
	return o.fn(ctx, event)
}

// ObserverFunc adapts fn to the Observer interface. Every call returns a
// distinct observer, so keep the result to remove it later.
func ObserverFunc(fn func(ctx context.Context, event Event) error) Observer {
	return &funcObserver{fn: fn}
}

// sameObserver compares observers by identity. Observers whose dynamic
// value is not comparable, such as a struct holding a slice in an interface
// field, never match rather than panicking.
func sameObserver(a, b Observer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}
