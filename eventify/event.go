package eventify

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Event is the record of one intercepted call. It is created when the call is
// made and handed to observers by value; the argument snapshot is private so
// no observer can change what another one receives.
type Event struct {
	ID        string    // Unique UUIDv7 identifier of this call.
	Subject   string    // ID of the subject the operation belongs to.
	Operation string    // Name of the called operation.
	Timestamp time.Time // When the call was intercepted.

	args []any
}

// NewEvent builds the Event for a call of the named operation. The arguments
// are copied element-wise, so later changes to the caller's slice do not
// reach observers.
func NewEvent(subject, operation string, args []any) Event {
	return Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Subject:   subject,
		Operation: operation,
		Timestamp: time.Now(),
		args:      slices.Clone(args),
	}
}

// Arguments returns a copy of the call arguments in call order.
// A call without arguments yields an empty, non-nil slice.
func (e Event) Arguments() []any {
	if e.args == nil {
		return []any{}
	}
	return slices.Clone(e.args)
}

// Arg returns the i-th argument, or nil when i is out of range.
func (e Event) Arg(i int) any {
	if i < 0 || i >= len(e.args) {
		return nil
	}
	return e.args[i]
}

// Len returns the number of arguments.
func (e Event) Len() int {
	return len(e.args)
}

func (e Event) String() string {
	return fmt.Sprintf("Event{ID: %s, Operation: %s, Arguments: %v}", e.ID, e.Operation, e.args)
}
