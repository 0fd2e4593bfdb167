package eventify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Operation is the calling convention shared by every instrumentable
// operation: an ordered sequence of opaque arguments in, an opaque result or
// an error out.
type Operation func(ctx context.Context, args ...any) (any, error)

// Operations maps operation names to operations. Wrap instruments it in place.
type Operations map[string]Operation

// Subject is the observable façade over an Operations map. It owns the
// observer registry and remembers which operations it has instrumented.
type Subject struct {
	id       string
	ops      Operations
	wrapped  map[string]bool
	policy   Policy
	markers  Markers
	registry *Registry
	delivery Delivery
	logger   *slog.Logger
	mu       sync.RWMutex
}

// Wrap instruments every operation in ops selected by policy and returns the
// Subject controlling them. The map is modified in place: instrumented
// entries are replaced by their interceptors. Returns ErrAlreadyInstrumented,
// leaving ops untouched, if a selected entry is already an interceptor
// installed by an earlier Wrap.
func Wrap(ops Operations, policy Policy, opts ...Option) (*Subject, error) {
	if ops == nil {
		return nil, ErrNilSubject
	}

	s := &Subject{
		id:       uuid.Must(uuid.NewV7()).String(),
		ops:      ops,
		wrapped:  make(map[string]bool),
		policy:   policy,
		delivery: DeliveryStop,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if _, err := ParseDelivery(string(s.delivery)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		op := ops[name]
		if isInterceptor(op) && s.policy.Eligible(name, op, s.markers) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyInstrumented, name)
		}
	}

	for _, name := range names {
		s.instrument(name)
	}

	s.logger.Debug("subject wrapped",
		slog.String("subject", s.id),
		slog.Int("operations", len(ops)),
		slog.Int("instrumented", len(s.wrapped)))

	return s, nil
}

// ID returns the subject's unique identifier, carried by its events.
func (s *Subject) ID() string {
	return s.id
}

// Registry returns the subject's observer registry.
func (s *Subject) Registry() *Registry {
	return s.registry
}

// AddObserver registers observer for every future event of the subject.
func (s *Subject) AddObserver(observer Observer) {
	s.registry.Add(observer)
}

// RemoveObserver removes the first registration of observer.
// Returns false if it was not registered.
func (s *Subject) RemoveObserver(observer Observer) bool {
	return s.registry.Remove(observer)
}

// Call invokes the named operation. Returns ErrUnknownOperation if the subject
// does not define it.
func (s *Subject) Call(ctx context.Context, name string, args ...any) (any, error) {
	op, ok := s.Operation(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op(ctx, args...)
}

// Operation returns the current entry for name, instrumented or not.
func (s *Subject) Operation(name string) (Operation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.ops[name]
	if !ok || op == nil {
		return nil, false
	}
	return op, true
}

// Names returns the sorted names of all operations.
func (s *Subject) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.ops))
	for name := range s.ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Instrumented reports whether the named operation is intercepted.
func (s *Subject) Instrumented(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wrapped[name]
}

// Define adds an operation after Wrap without instrumenting it; follow with
// InstrumentOperation to observe it. Returns ErrNotCallable for a nil op and
// ErrAlreadyInstrumented if name is already intercepted.
func (s *Subject) Define(name string, op Operation) error {
	if op == nil {
		return fmt.Errorf("%w: %s", ErrNotCallable, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wrapped[name] {
		return fmt.Errorf("%w: %s", ErrAlreadyInstrumented, name)
	}
	s.ops[name] = op
	return nil
}

// InstrumentOperation instruments an operation added after Wrap, applying the
// subject's policy. Operations the policy rejects are left untouched.
// Returns ErrAlreadyInstrumented if the operation is already intercepted and
// ErrNotCallable if the subject has no callable operation by that name.
func (s *Subject) InstrumentOperation(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wrapped[name] || isInterceptor(s.ops[name]) {
		return fmt.Errorf("%w: %s", ErrAlreadyInstrumented, name)
	}
	if s.ops[name] == nil {
		return fmt.Errorf("%w: %s", ErrNotCallable, name)
	}

	if !s.instrument(name) {
		s.logger.Debug("operation not eligible",
			slog.String("subject", s.id),
			slog.String("operation", name))
	}
	return nil
}

// instrument replaces ops[name] with its interceptor if the policy selects it.
// Callers hold s.mu.
func (s *Subject) instrument(name string) bool {
	original := s.ops[name]
	if s.wrapped[name] || !s.policy.Eligible(name, original, s.markers) {
		return false
	}

	ic := &interceptor{subject: s, name: name, original: original}
	s.ops[name] = ic.call
	s.wrapped[name] = true
	return true
}

func (s *Subject) notify(ctx context.Context, event Event) error {
	if s.delivery == DeliveryIsolate {
		if err := s.registry.FireAll(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "observer delivery failed",
				slog.String("subject", s.id),
				slog.String("operation", event.Operation),
				slog.String("event_id", event.ID),
				slog.Any("error", err))
		}
		return nil
	}
	return s.registry.Fire(ctx, event)
}
