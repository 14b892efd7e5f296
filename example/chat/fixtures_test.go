package chat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/event-revisions-go/event"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/example/chat"
)

var fixtureTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func storablesOf(t *testing.T, events ...event.Event) eventstore.StorableEvents {
	t.Helper()

	storables := make(eventstore.StorableEvents, 0, len(events))
	for i, ev := range events {
		storable, err := eventstore.StorableEventFrom(ev, fixtureTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err, "error in arranging test data")

		storables = append(storables, storable)
	}

	return storables
}

func sourceOf(t *testing.T, events ...event.Event) *chat.MemorySource {
	t.Helper()

	return chat.NewMemorySource(storablesOf(t, events...)...)
}

func rawsOf(t *testing.T, events ...event.Event) event.Raws {
	t.Helper()

	raws := make(event.Raws, 0, len(events))
	for _, storable := range storablesOf(t, events...) {
		raws = append(raws, storable.ToRaw())
	}

	return raws
}

func ptr[T any](v T) *T {
	return &v
}
