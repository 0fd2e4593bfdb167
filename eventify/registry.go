package eventify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

type registryEntry struct {
	observer Observer
	removed  bool
}

// Registry is an ordered collection of observers. Insertion order is
// notification order and the same observer may be registered more than once.
// It is safe for concurrent use, and observers may mutate the registry while
// being notified.
type Registry struct {
	entries []*registryEntry
	mu      sync.Mutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends observer to the registry. Nil observers are ignored.
func (r *Registry) Add(observer Observer) {
	if observer == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, &registryEntry{observer: observer})
}

// Remove removes the first registration of observer and reports whether one
// was found. Removing an unregistered observer is a no-op.
func (r *Registry) Remove(observer Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if sameObserver(e.observer, observer) {
			e.removed = true
			r.entries = slices.Delete(r.entries, i, i+1)
			return true
		}
	}
	return false
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Fire delivers event to every registered observer in order and stops at the
// first failure, returning it wrapped in ErrObserver.
func (r *Registry) Fire(ctx context.Context, event Event) error {
	for _, e := range r.snapshot() {
		if !r.live(e) {
			continue
		}
		if err := e.observer.OnEvent(ctx, event); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrObserver, event.Operation, err)
		}
	}
	return nil
}

// FireAll delivers event to every registered observer in order regardless of
// failures. The failures are joined and each is wrapped in ErrObserver.
func (r *Registry) FireAll(ctx context.Context, event Event) error {
	var errs []error
	for _, e := range r.snapshot() {
		if !r.live(e) {
			continue
		}
		if err := e.observer.OnEvent(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrObserver, event.Operation, err))
		}
	}
	return errors.Join(errs...)
}

// snapshot fixes the set of entries a delivery pass visits. The lock is
// released before any observer runs so observers can call Add and Remove.
func (r *Registry) snapshot() []*registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.entries)
}

func (r *Registry) live(e *registryEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return !e.removed
}
