package eventify

import (
	"context"
	"reflect"
)

// interceptor stands in for one instrumented operation. Its call method value
// is what Wrap installs in the Operations map.
type interceptor struct {
	subject  *Subject
	name     string
	original Operation
}

func (ic *interceptor) call(ctx context.Context, args ...any) (any, error) {
	event := NewEvent(ic.subject.id, ic.name, args)
	if err := ic.subject.notify(ctx, event); err != nil {
		return nil, err
	}
	return ic.original(ctx, args...)
}

// interceptorCode is the code pointer shared by every interceptor.call method
// value, whichever subject installed it.
var interceptorCode = reflect.ValueOf((&interceptor{}).call).Pointer()

// isInterceptor reports whether op was installed by any Subject.
func isInterceptor(op Operation) bool {
	return op != nil && reflect.ValueOf(op).Pointer() == interceptorCode
}
