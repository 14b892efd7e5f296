package event

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrZeroRevision is returned when a revision of 0 is supplied. Revisions start at 1.
	ErrZeroRevision = errors.New("event revision must not be zero")

	// ErrRevisionOutOfRange is returned when a revision does not fit into 16 bits.
	ErrRevisionOutOfRange = errors.New("event revision is out of range")
)

// Revision is the schema version ordinal of an event type.
//
// Revisions are assigned once per event name and released schema version and are never reused.
// The zero value is not a valid Revision.
type Revision uint16

// NewRevision builds a Revision from an int, rejecting 0 and values that don't fit into 16 bits.
func NewRevision(value int) (Revision, error) {
	if value == 0 {
		return 0, ErrZeroRevision
	}

	if value < 0 || value > math.MaxUint16 {
		return 0, ErrRevisionOutOfRange
	}

	return Revision(value), nil
}

// MustRevision is like NewRevision but panics on invalid input.
// It is meant for package-level declarations of event types.
func MustRevision(value int) Revision {
	revision, err := NewRevision(value)
	if err != nil {
		panic(err)
	}

	return revision
}

// IsValid reports whether the Revision is non-zero.
func (r Revision) IsValid() bool {
	return r != 0
}

// Uint16 returns the primitive value.
func (r Revision) Uint16() uint16 {
	return uint16(r)
}

func (r Revision) String() string {
	return strconv.FormatUint(uint64(r), 10)
}
