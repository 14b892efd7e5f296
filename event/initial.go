package event

// InitialMarker is implemented by events that establish the initial state of an aggregate.
type InitialMarker interface {
	IsInitial() bool
}

// Initial marks the wrapped Event as the creation event of an aggregate.
//
// It is an explicit wrapper, not a transparent one: consumers check for the marker with IsInitial
// and get to the wrapped value with Unwrap or Underlying.
type Initial[E Event] struct {
	Event E
}

// MarkInitial wraps ev into an Initial.
func MarkInitial[E Event](ev E) Initial[E] {
	return Initial[E]{Event: ev}
}

// EventName returns the name of the wrapped Event.
func (i Initial[E]) EventName() Name {
	return i.Event.EventName()
}

// EventRevision returns the revision of the wrapped Event.
func (i Initial[E]) EventRevision() Revision {
	return i.Event.EventRevision()
}

// IsInitial always returns true.
func (i Initial[E]) IsInitial() bool {
	return true
}

// Unwrap returns the wrapped Event.
func (i Initial[E]) Unwrap() Event {
	return i.Event
}

type unwrapper interface {
	Unwrap() Event
}

// IsInitial reports whether ev carries the Initial marker.
func IsInitial(ev Event) bool {
	marker, ok := ev.(InitialMarker)

	return ok && marker.IsInitial()
}

// Underlying strips all Initial wrappers from ev.
func Underlying(ev Event) Event {
	for {
		wrapped, ok := ev.(unwrapper)
		if !ok {
			return ev
		}

		ev = wrapped.Unwrap()
	}
}
