package aggregate

import (
	"errors"
	"fmt"
	"iter"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

var (
	// ErrMissingInitialEvent is returned when a non-initial event is applied to an aggregate that doesn't exist yet.
	ErrMissingInitialEvent = errors.New("aggregate does not exist, the first event must be an initial event")

	// ErrDuplicateInitialEvent is returned when an initial event is applied to an aggregate that already exists.
	ErrDuplicateInitialEvent = errors.New("aggregate already exists, only one initial event is allowed")
)

// EventSourced is the contract of an aggregate that can apply regular events to its existing state.
//
// Apply returns the updated state or a domain error if the event is not applicable to the state.
type EventSourced[S any] interface {
	Apply(state S, ev event.Event) (S, error)
}

// EventInitialised is the contract of an aggregate that can be created from an initial event.
//
// Init receives the unwrapped event and returns the freshly created state.
type EventInitialised[S any] interface {
	Init(ev event.Event) (S, error)
}

// Definition combines both contracts. Every aggregate type that is folded from events implements it.
type Definition[S any] interface {
	EventInitialised[S]
	EventSourced[S]
}

// Root holds the optional state of one aggregate instance while events are applied.
//
// The zero value is a non-existent aggregate.
type Root[S any] struct {
	state   S
	exists  bool
	applied int
}

// Apply applies one event to the Root, enforcing that exactly the first event is an initial event.
//
// Events marked with event.Initial are passed to def.Init unwrapped, all others to def.Apply.
func (r *Root[S]) Apply(def Definition[S], ev event.Event) error {
	if event.IsInitial(ev) {
		if r.exists {
			return fmt.Errorf("%w: %s", ErrDuplicateInitialEvent, ev.EventName())
		}

		state, err := def.Init(event.Underlying(ev))
		if err != nil {
			return err
		}

		r.state, r.exists = state, true
		r.applied++

		return nil
	}

	if !r.exists {
		return fmt.Errorf("%w: %s", ErrMissingInitialEvent, ev.EventName())
	}

	state, err := def.Apply(r.state, ev)
	if err != nil {
		return err
	}

	r.state = state
	r.applied++

	return nil
}

// ApplyAll applies the given events in order and stops at the first error.
func (r *Root[S]) ApplyAll(def Definition[S], events ...event.Event) error {
	for _, ev := range events {
		if err := r.Apply(def, ev); err != nil {
			return err
		}
	}

	return nil
}

// State returns the current state and whether the aggregate exists.
func (r *Root[S]) State() (S, bool) {
	return r.state, r.exists
}

// Exists reports whether an initial event was applied.
func (r *Root[S]) Exists() bool {
	return r.exists
}

// Applied returns the number of events applied so far.
func (r *Root[S]) Applied() int {
	return r.applied
}

// Fold folds an event stream into a new Root, stopping at the first stream or domain error.
//
// On error, the Root reflects all events applied before the failing one.
func Fold[S any](def Definition[S], events iter.Seq2[event.Event, error]) (*Root[S], error) {
	root := &Root[S]{}

	for ev, err := range events {
		if err != nil {
			return root, err
		}

		if err = root.Apply(def, ev); err != nil {
			return root, err
		}
	}

	return root, nil
}
