package chat

import (
	"context"
	"iter"
	"slices"

	"github.com/AntonStoeckl/event-revisions-go/event"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
)

// MemorySource is an in-memory RawSource over a fixed, ordered list of stored events.
type MemorySource struct {
	storables eventstore.StorableEvents
}

// NewMemorySource creates a MemorySource. Events get sequence numbers from 1 in the given order.
func NewMemorySource(storables ...eventstore.StorableEvent) *MemorySource {
	numbered := make(eventstore.StorableEvents, 0, len(storables))
	for i, storable := range storables {
		numbered = append(numbered, storable.WithSequenceNumber(uint64(i+1))) //nolint:gosec // i is non-negative
	}

	return &MemorySource{storables: numbered}
}

// Stream implements RawSource with the same filter semantics as postgresengine.Reader.
func (s *MemorySource) Stream(ctx context.Context, filter eventstore.StreamFilter) iter.Seq2[event.Raw, error] {
	return func(yield func(event.Raw, error) bool) {
		var yielded uint

		for _, storable := range s.storables {
			if err := ctx.Err(); err != nil {
				yield(event.Raw{}, err)
				return
			}

			if !matches(filter, storable) {
				continue
			}

			if !yield(storable.ToRaw(), nil) {
				return
			}

			yielded++
			if filter.Limit() > 0 && yielded == filter.Limit() {
				return
			}
		}
	}
}

func matches(filter eventstore.StreamFilter, storable eventstore.StorableEvent) bool {
	switch {
	case len(filter.EventNames()) > 0 && !slices.Contains(filter.EventNames(), storable.EventName):
		return false
	case filter.MaxRevision().IsValid() && storable.Revision > filter.MaxRevision():
		return false
	case storable.SequenceNumber <= filter.AfterSequence():
		return false
	case !filter.OccurredFrom().IsZero() && storable.OccurredAt.Before(filter.OccurredFrom()):
		return false
	case !filter.OccurredUntil().IsZero() && storable.OccurredAt.After(filter.OccurredUntil()):
		return false
	default:
		return true
	}
}
