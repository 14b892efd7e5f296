package eventstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

// StorableEvents is an alias type for a slice of StorableEvent
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) for one row of the events table.
//
// It is built on scalars, so it is agnostic of the domain events of the client code. Together with the revision
// it carries everything an adapter.Transformer needs to upcast the event into its current shape.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
//   - StorableEventFrom
type StorableEvent struct {
	EventName      event.Name
	Revision       event.Revision
	SequenceNumber SequenceNumberUint
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if eventName is empty, revision is zero, or payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(
	eventName event.Name,
	revision event.Revision,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
) (StorableEvent, error) {

	if eventName == "" {
		return StorableEvent{}, event.ErrEmptyEventName
	}

	if !revision.IsValid() {
		return StorableEvent{}, event.ErrZeroRevision
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StorableEvent{}, event.ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventName:    eventName,
		Revision:     revision,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is a factory method for StorableEvent.
//
// It creates valid empty JSON for MetadataJSON.
func BuildStorableEventWithEmptyMetadata(
	eventName event.Name,
	revision event.Revision,
	occurredAt time.Time,
	payloadJSON []byte,
) (StorableEvent, error) {

	return BuildStorableEvent(eventName, revision, occurredAt, payloadJSON, []byte("{}"))
}

// StorableEventFrom encodes an in-memory event into a StorableEvent with empty metadata.
//
// The revision is the recorded revision for event.Versioned events.
func StorableEventFrom(ev event.Event, occurredAt time.Time) (StorableEvent, error) {
	raw, err := event.RawFrom(ev)
	if err != nil {
		return StorableEvent{}, err
	}

	return BuildStorableEventWithEmptyMetadata(raw.Name, raw.Revision, occurredAt, raw.Payload)
}

// WithSequenceNumber returns a copy of the StorableEvent positioned at sequenceNumber.
func (e StorableEvent) WithSequenceNumber(sequenceNumber SequenceNumberUint) StorableEvent {
	e.SequenceNumber = sequenceNumber

	return e
}

// ToRaw converts the StorableEvent into the input of an adapter.Transformer.
func (e StorableEvent) ToRaw() event.Raw {
	return event.Raw{
		Name:     e.EventName,
		Revision: e.Revision,
		Payload:  e.PayloadJSON,
		Sequence: e.SequenceNumber,
	}
}
