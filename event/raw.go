package event

import (
	"errors"
	"iter"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidPayloadJSON is returned when a raw payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")

	// ErrEncodingPayloadFailed is returned when an in-memory event can't be encoded into a raw payload.
	ErrEncodingPayloadFailed = errors.New("encoding event payload failed")
)

// Raws is an alias type for a slice of Raw.
type Raws = []Raw

// Raw is a persisted event record as delivered by a raw event source.
//
// Only Name, Revision and Payload are required for adaptation. Value may carry an already decoded
// event (in-memory sources), in which case strategies use it instead of decoding Payload.
// Sequence is the position of the record in its source, or 0 if the source has no such notion.
//
// It should be constructed with the supplied factory methods:
//   - BuildRaw
//   - RawFrom
type Raw struct {
	Name     Name
	Revision Revision
	Payload  []byte
	Value    Event
	Sequence uint64
}

// BuildRaw is a factory method for Raw.
//
// Returns an error if the name is empty, the revision is zero, or payloadJSON is not valid JSON.
func BuildRaw(name Name, revision Revision, payloadJSON []byte) (Raw, error) {
	if name == "" {
		return Raw{}, ErrEmptyEventName
	}

	if !revision.IsValid() {
		return Raw{}, ErrZeroRevision
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return Raw{}, ErrInvalidPayloadJSON
	}

	return Raw{
		Name:     name,
		Revision: revision,
		Payload:  payloadJSON,
	}, nil
}

// RawFrom builds a Raw from an in-memory event, keeping the event itself as Value.
//
// The revision is the recorded revision for Versioned events.
func RawFrom(ev Event) (Raw, error) {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(ev)
	if err != nil {
		return Raw{}, errors.Join(ErrEncodingPayloadFailed, err)
	}

	raw, err := BuildRaw(ev.EventName(), RecordedRevisionOf(ev), payload)
	if err != nil {
		return Raw{}, err
	}

	raw.Value = ev

	return raw, nil
}

// WithSequence returns a copy of the Raw positioned at sequence.
func (r Raw) WithSequence(sequence uint64) Raw {
	r.Sequence = sequence

	return r
}

// RawSlice turns the given records into a restartable in-memory raw event stream.
func RawSlice(raws ...Raw) iter.Seq2[Raw, error] {
	return func(yield func(Raw, error) bool) {
		for _, raw := range raws {
			if !yield(raw, nil) {
				return
			}
		}
	}
}
