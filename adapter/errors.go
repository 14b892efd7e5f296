package adapter

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

var (
	// ErrAdapterNotFound is matched by AdapterNotFoundError.
	ErrAdapterNotFound = errors.New("no adapter registered for event")

	// ErrDuplicateAdapter is matched by DuplicateAdapterError.
	ErrDuplicateAdapter = errors.New("adapter already registered for event")

	// ErrInvalidAdapter is returned for adapters with an empty name, a zero revision, or a nil strategy.
	ErrInvalidAdapter = errors.New("invalid adapter")

	// ErrEmptySplit is returned when a Split strategy produces no events.
	ErrEmptySplit = errors.New("split strategy produced no events")

	// ErrDecodingPayloadFailed is returned when a raw payload can't be decoded into the source event type.
	ErrDecodingPayloadFailed = errors.New("decoding event payload failed")

	// ErrUncoveredSchema is returned by Registry.Covers for every schema without an adapter.
	ErrUncoveredSchema = errors.New("event schema has no adapter")

	// ErrNilRegistry is returned when a Transformer is created without a Registry.
	ErrNilRegistry = errors.New("nil registry supplied")

	// ErrInvalidOption is returned for option values that are out of range.
	ErrInvalidOption = errors.New("invalid option")
)

// AdapterNotFoundError is returned when a Registry has no Strategy for an event name and revision.
type AdapterNotFoundError struct {
	Name     event.Name
	Revision event.Revision
}

func (e *AdapterNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s@%s", ErrAdapterNotFound, e.Name, e.Revision)
}

// Is makes errors.Is(err, ErrAdapterNotFound) work.
func (e *AdapterNotFoundError) Is(target error) bool {
	return target == ErrAdapterNotFound
}

// DuplicateAdapterError is returned when two adapters are registered for the same event name and revision.
type DuplicateAdapterError struct {
	Name     event.Name
	Revision event.Revision
}

func (e *DuplicateAdapterError) Error() string {
	return fmt.Sprintf("%s: %s@%s", ErrDuplicateAdapter, e.Name, e.Revision)
}

// Is makes errors.Is(err, ErrDuplicateAdapter) work.
func (e *DuplicateAdapterError) Is(target error) bool {
	return target == ErrDuplicateAdapter
}
