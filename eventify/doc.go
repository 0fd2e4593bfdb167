// Package eventify makes the named operations of a subject observable without
// changing the operations themselves or any of their call sites.
//
// A subject is a map from operation name to Operation. Wrap replaces every
// operation selected by a Policy with an interceptor that records the call as
// an Event, delivers it to the subject's observers, and then invokes the
// original operation, returning its result or error unchanged.
//
//	ops := eventify.Operations{
//		"greet": func(ctx context.Context, args ...any) (any, error) {
//			return fmt.Sprintf("hello, %v", args[0]), nil
//		},
//	}
//	subject, err := eventify.Wrap(ops, eventify.Policy{})
//	subject.AddObserver(eventify.ObserverFunc(func(ctx context.Context, e eventify.Event) error {
//		log.Printf("%s%v", e.Operation, e.Arguments())
//		return nil
//	}))
//	out, err := subject.Call(ctx, "greet", "Ada") // "hello, Ada"
//
// # Delivery
//
// Observers are notified synchronously, in insertion order, before the
// original operation runs. Observers never see the operation's result.
//
// With DeliveryStop (the default) the first observer error ends the
// notification pass, the original operation is not invoked, and the caller
// receives the observer error wrapped in ErrObserver. With DeliveryIsolate
// every observer runs, failures are joined and logged, and the original
// operation is invoked as usual.
//
// Observers may add or remove observers (themselves included) while being
// notified. A pass visits each observer registered when the pass began exactly
// once, skips observers removed ahead of it, and ignores observers added
// during the pass until the next event.
package eventify
