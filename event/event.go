package event

import "errors"

// ErrEmptyEventName is returned when an event or raw record has no name.
var ErrEmptyEventName = errors.New("event name must not be empty")

// Name is the fully qualified, stable name of an event type, e.g. "chat.private.created".
type Name = string

// Events is an alias type for a slice of Event.
type Events = []Event

// Event is an immutable fact that happened to an aggregate.
//
// Implementations should be value types (structs) so that their zero value can report the name and
// revision, which is what BindEvent and DescribeSchema rely on.
type Event interface {
	// EventName returns the stable name of the event type. It must never change.
	EventName() Name

	// EventRevision returns the current schema revision of the event type.
	EventRevision() Revision
}

// Versioned is an Event that also knows the revision a specific stored instance was recorded under,
// which may be lower than the current EventRevision of its type.
type Versioned interface {
	Event

	RecordedRevision() Revision
}

// RecordedRevisionOf returns the recorded revision for Versioned events and the type's current
// revision for all other events.
func RecordedRevisionOf(ev Event) Revision {
	if versioned, ok := ev.(Versioned); ok {
		return versioned.RecordedRevision()
	}

	return ev.EventRevision()
}
