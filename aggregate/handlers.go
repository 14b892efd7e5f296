package aggregate

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

var (
	// ErrUnhandledEvent is returned when Handlers have no handler for an event name.
	ErrUnhandledEvent = errors.New("no handler registered for event")

	// ErrDuplicateHandler is returned when a second handler is registered for the same event name.
	ErrDuplicateHandler = errors.New("handler already registered for event")

	// ErrUnexpectedEventType is returned by typed handlers when the event has a different Go type.
	ErrUnexpectedEventType = errors.New("unexpected event type")
)

type (
	// InitFunc creates a state from an initial event.
	InitFunc[S any] func(ev event.Event) (S, error)

	// ApplyFunc applies a regular event to a state.
	ApplyFunc[S any] func(state S, ev event.Event) (S, error)
)

// Handlers is a declarative table of init and apply handlers keyed by event name.
// It implements Definition, so it can be passed to Root.Apply and Fold directly.
//
// Handlers are registered at initialization time and only read afterward; concurrent Init/Apply calls are safe.
type Handlers[S any] struct {
	inits    map[event.Name]InitFunc[S]
	appliers map[event.Name]ApplyFunc[S]
	err      error
}

// NewHandlers creates an empty handler table.
func NewHandlers[S any]() *Handlers[S] {
	return &Handlers[S]{
		inits:    make(map[event.Name]InitFunc[S]),
		appliers: make(map[event.Name]ApplyFunc[S]),
	}
}

// OnInit registers fn as the creation handler for name.
func (h *Handlers[S]) OnInit(name event.Name, fn InitFunc[S]) *Handlers[S] {
	if h.register(name, fn == nil) {
		h.inits[name] = fn
	}

	return h
}

// On registers fn as the handler for regular events named name.
func (h *Handlers[S]) On(name event.Name, fn ApplyFunc[S]) *Handlers[S] {
	if h.register(name, fn == nil) {
		h.appliers[name] = fn
	}

	return h
}

func (h *Handlers[S]) register(name event.Name, isNil bool) bool {
	if h.err != nil {
		return false
	}

	switch {
	case name == "":
		h.err = event.ErrEmptyEventName
	case isNil:
		h.err = fmt.Errorf("nil handler for %s", name)
	default:
		_, isInit := h.inits[name]
		_, isApply := h.appliers[name]

		if isInit || isApply {
			h.err = fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
		}
	}

	return h.err == nil
}

// Err returns the first registration error, if any.
func (h *Handlers[S]) Err() error {
	return h.err
}

// Init implements EventInitialised.
// A table with a registration error refuses every event.
func (h *Handlers[S]) Init(ev event.Event) (S, error) {
	if h.err != nil {
		var zero S
		return zero, h.err
	}

	fn, ok := h.inits[ev.EventName()]
	if !ok {
		var zero S
		return zero, fmt.Errorf("%w: %s (initial)", ErrUnhandledEvent, ev.EventName())
	}

	return fn(ev)
}

// Apply implements EventSourced.
func (h *Handlers[S]) Apply(state S, ev event.Event) (S, error) {
	if h.err != nil {
		return state, h.err
	}

	fn, ok := h.appliers[ev.EventName()]
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrUnhandledEvent, ev.EventName())
	}

	return fn(state, ev)
}

// InitWith adapts a typed creation function to an InitFunc.
func InitWith[S any, E event.Event](fn func(E) (S, error)) InitFunc[S] {
	return func(ev event.Event) (S, error) {
		typed, ok := ev.(E)
		if !ok {
			var zero S
			return zero, unexpectedType[E](ev)
		}

		return fn(typed)
	}
}

// ApplyWith adapts a typed apply function to an ApplyFunc.
func ApplyWith[S any, E event.Event](fn func(S, E) (S, error)) ApplyFunc[S] {
	return func(state S, ev event.Event) (S, error) {
		typed, ok := ev.(E)
		if !ok {
			return state, unexpectedType[E](ev)
		}

		return fn(state, typed)
	}
}

func unexpectedType[E event.Event](ev event.Event) error {
	var zero E

	return fmt.Errorf("%w: want %T, got %T for %s", ErrUnexpectedEventType, zero, ev, ev.EventName())
}
