package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	. "github.com/AntonStoeckl/event-revisions-go/example/chat"
)

func Test_MemorySource_Applies_Filter(t *testing.T) {
	chatID := uuid.New()
	source := sourceOf(
		t,
		ChatCreatedV1{ChatID: chatID},
		MessagePosted{ChatID: chatID},
		EmailAdded{Email: "ada@example.com"},
		MessagePosted{ChatID: chatID},
	)

	testCases := []struct {
		name          string
		filter        eventstore.StreamFilter
		wantSequences []uint64
	}{
		{
			name:          "any event",
			filter:        eventstore.MatchingAnyEvent(),
			wantSequences: []uint64{1, 2, 3, 4},
		},
		{
			name:          "event names",
			filter:        eventstore.BuildStreamFilter().WithEventNames(MessagePostedEventName).Finalize(),
			wantSequences: []uint64{2, 4},
		},
		{
			name:          "revision upper bound",
			filter:        eventstore.BuildStreamFilter().WithRevisionUpTo(2).Finalize(),
			wantSequences: []uint64{1, 2, 4},
		},
		{
			name:          "after sequence with limit",
			filter:        eventstore.BuildStreamFilter().AfterSequence(1).Limit(2).Finalize(),
			wantSequences: []uint64{2, 3},
		},
		{
			name: "occurred window",
			filter: eventstore.BuildStreamFilter().
				OccurredFrom(fixtureTime.Add(time.Minute)).
				OccurredUntil(fixtureTime.Add(2 * time.Minute)).
				Finalize(),
			wantSequences: []uint64{2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sequences := make([]uint64, 0)
			for raw, err := range source.Stream(context.Background(), tc.filter) {
				require.NoError(t, err)
				sequences = append(sequences, raw.Sequence)
			}

			assert.Equal(t, tc.wantSequences, sequences)
		})
	}
}

func Test_MemorySource_Yields_Cancellation(t *testing.T) {
	// arrange
	source := sourceOf(t, PublicChatCreated{ChatID: uuid.New()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	var errs []error
	for _, err := range source.Stream(ctx, eventstore.MatchingAnyEvent()) {
		errs = append(errs, err)
	}

	// assert
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}
