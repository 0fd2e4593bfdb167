package eventify

import "errors"

// Configuration errors returned by Wrap, Define and InstrumentOperation.
var (
	ErrNilSubject          = errors.New("subject is nil")
	ErrAlreadyInstrumented = errors.New("operation already instrumented")
	ErrNotCallable         = errors.New("operation is not callable")
	ErrInvalidDelivery     = errors.New("invalid delivery mode")
)

// ErrUnknownOperation is returned by Subject.Call for names the subject does
// not define.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrObserver wraps an observer failure surfaced to the caller of an
// instrumented operation.
var ErrObserver = errors.New("observer failed")
