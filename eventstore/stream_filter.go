package eventstore

import (
	"slices"
	"time"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

/***** StreamFilter *****/

// StreamFilter selects the rows of the events table that make up a raw event stream.
// The zero value matches all events.
type StreamFilter struct {
	eventNames    []event.Name
	maxRevision   event.Revision
	afterSequence SequenceNumberUint
	limit         uint
	occurredFrom  time.Time
	occurredUntil time.Time
}

// EventNames returns the event names to match, sorted and without duplicates. Empty means all names.
func (f StreamFilter) EventNames() []event.Name {
	return f.eventNames
}

// MaxRevision returns the highest revision to match, or 0 if revisions are not restricted.
func (f StreamFilter) MaxRevision() event.Revision {
	return f.maxRevision
}

// AfterSequence returns the sequence number after which events match, or 0 if unrestricted.
func (f StreamFilter) AfterSequence() SequenceNumberUint {
	return f.afterSequence
}

// Limit returns the maximum number of events to match, or 0 if unlimited.
func (f StreamFilter) Limit() uint {
	return f.limit
}

// OccurredFrom returns the lower bound (inclusive) of the time range, or the zero time if unrestricted.
func (f StreamFilter) OccurredFrom() time.Time {
	return f.occurredFrom
}

// OccurredUntil returns the upper bound (inclusive) of the time range, or the zero time if unrestricted.
func (f StreamFilter) OccurredUntil() time.Time {
	return f.occurredUntil
}

/***** StreamFilterBuilder *****/

// StreamFilterBuilder builds a StreamFilter to be used by DB specific readers to build their queries.
//
// All restrictions are combined with AND. Each one may be set at most once; setting it again overwrites it.
type StreamFilterBuilder interface {
	// WithEventNames restricts the stream to one or multiple event names.
	//
	// It sanitizes the input:
	//	- removing empty event names ("")
	//	- sorting the event names
	//	- removing duplicate event names
	WithEventNames(eventName event.Name, eventNames ...event.Name) StreamFilterBuilder

	// WithRevisionUpTo restricts the stream to events recorded with a revision less than or equal to revision.
	WithRevisionUpTo(revision event.Revision) StreamFilterBuilder

	// AfterSequence restricts the stream to events with a sequence number greater than sequenceNumber.
	AfterSequence(sequenceNumber SequenceNumberUint) StreamFilterBuilder

	// OccurredFrom restricts the stream to events that occurred at or after from.
	OccurredFrom(from time.Time) StreamFilterBuilder

	// OccurredUntil restricts the stream to events that occurred at or before until.
	OccurredUntil(until time.Time) StreamFilterBuilder

	// Limit restricts the stream to at most limit events. 0 means unlimited.
	Limit(limit uint) StreamFilterBuilder

	// Finalize returns the StreamFilter.
	Finalize() StreamFilter
}

type streamFilterBuilder struct {
	filter StreamFilter
}

// BuildStreamFilter creates a new StreamFilterBuilder.
func BuildStreamFilter() StreamFilterBuilder {
	return streamFilterBuilder{}
}

// MatchingAnyEvent directly creates an empty StreamFilter.
func MatchingAnyEvent() StreamFilter {
	return StreamFilter{}
}

func (fb streamFilterBuilder) WithEventNames(eventName event.Name, eventNames ...event.Name) StreamFilterBuilder {
	all := append([]event.Name{eventName}, eventNames...)
	all = slices.DeleteFunc(all, func(name event.Name) bool { return name == "" })
	slices.Sort(all)

	fb.filter.eventNames = slices.Compact(all)

	return fb
}

func (fb streamFilterBuilder) WithRevisionUpTo(revision event.Revision) StreamFilterBuilder {
	fb.filter.maxRevision = revision

	return fb
}

func (fb streamFilterBuilder) AfterSequence(sequenceNumber SequenceNumberUint) StreamFilterBuilder {
	fb.filter.afterSequence = sequenceNumber

	return fb
}

func (fb streamFilterBuilder) OccurredFrom(from time.Time) StreamFilterBuilder {
	fb.filter.occurredFrom = from

	return fb
}

func (fb streamFilterBuilder) OccurredUntil(until time.Time) StreamFilterBuilder {
	fb.filter.occurredUntil = until

	return fb
}

func (fb streamFilterBuilder) Limit(limit uint) StreamFilterBuilder {
	fb.filter.limit = limit

	return fb
}

func (fb streamFilterBuilder) Finalize() StreamFilter {
	return fb.filter
}
