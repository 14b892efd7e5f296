package adapter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/event"
)

func Test_AsIs_Returns_The_Event_Unchanged(t *testing.T) {
	events := []event.Event{
		userRenamed{UserID: "u-1", Name: "Ada"},
		userRenamed{},
		userRenamed{UserID: "u-2", Name: "Grace Brewster Murray Hopper"},
	}

	for _, ev := range events {
		t.Run("decoded from payload", func(t *testing.T) {
			adapted, err := AsIs[userRenamed, directory]().Adapt(context.Background(), rawOf(t, ev), nil)

			assert.NoError(t, err)
			assert.Equal(t, event.Events{ev}, adapted)
		})

		t.Run("taken from the raw value", func(t *testing.T) {
			raw, err := event.RawFrom(ev)
			require.NoError(t, err)

			adapted, err := AsIs[userRenamed, directory]().Adapt(context.Background(), raw, nil)

			assert.NoError(t, err)
			assert.Equal(t, event.Events{ev}, adapted)
		})
	}
}

func Test_AsIs_Fails_On_Undecodable_Payload(t *testing.T) {
	raw, err := event.BuildRaw("user.renamed", 1, []byte(`{"user_id": 42}`))
	require.NoError(t, err)

	_, err = AsIs[userRenamed, directory]().Adapt(context.Background(), raw, nil)

	assert.ErrorIs(t, err, ErrDecodingPayloadFailed)
	assert.ErrorContains(t, err, "user.renamed@1")
}

func Test_Into_Converts_Into_Exactly_One_Event(t *testing.T) {
	// arrange
	strategy := Into[userRegisteredV1, userRegistered, directory](upgradeUserRegistered)

	// act
	adapted, err := strategy.Adapt(context.Background(), rawOf(t, userRegisteredV1{UserID: "u-1", Name: "Ada Lovelace"}), nil)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, event.Events{userRegistered{UserID: "u-1", FirstName: "Ada", LastName: "Lovelace"}}, adapted)
	assert.Equal(t, KindInto, strategy.Kind())
}

func Test_Skip_Returns_No_Events(t *testing.T) {
	raws := []event.Raw{
		rawOf(t, userRetiredFlagSet{UserID: "u-1"}),
		rawOf(t, userRenamed{UserID: "u-1", Name: "Ada"}),
		{Name: "something.else", Revision: 9, Payload: []byte(`not even json`)},
	}

	for _, raw := range raws {
		adapted, err := Skip[directory]().Adapt(context.Background(), raw, nil)

		assert.NoError(t, err)
		assert.NotNil(t, adapted)
		assert.Empty(t, adapted)
	}
}

func Test_Split_Returns_The_Declared_Events_In_Order(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "one", count: 1},
		{name: "two", count: 2},
		{name: "five", count: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			strategy := Split[userRenamedAndDeactivated, directory](func(ev userRenamedAndDeactivated) (event.Events, error) {
				events := make(event.Events, 0, tt.count)
				for i := range tt.count {
					events = append(events, userRenamed{UserID: ev.UserID, Name: string(rune('a' + i))})
				}

				return events, nil
			})

			// act
			adapted, err := strategy.Adapt(context.Background(), rawOf(t, userRenamedAndDeactivated{UserID: "u-1"}), nil)

			// assert
			require.NoError(t, err)
			require.Len(t, adapted, tt.count)

			for i, ev := range adapted {
				assert.Equal(t, userRenamed{UserID: "u-1", Name: string(rune('a' + i))}, ev)
			}
		})
	}
}

func Test_Split_Fails_On_Empty_Result(t *testing.T) {
	strategy := Split[userRenamedAndDeactivated, directory](func(userRenamedAndDeactivated) (event.Events, error) {
		return nil, nil
	})

	_, err := strategy.Adapt(context.Background(), rawOf(t, userRenamedAndDeactivated{UserID: "u-1"}), nil)

	assert.ErrorIs(t, err, ErrEmptySplit)
}

func Test_Split_Returns_Splitter_Errors_Unchanged(t *testing.T) {
	errCannotSplit := errors.New("cannot split")
	strategy := Split[userRenamedAndDeactivated, directory](func(userRenamedAndDeactivated) (event.Events, error) {
		return nil, errCannotSplit
	})

	_, err := strategy.Adapt(context.Background(), rawOf(t, userRenamedAndDeactivated{UserID: "u-1"}), nil)

	assert.Same(t, errCannotSplit, err)
}

func Test_Custom_Uses_The_Context_Value(t *testing.T) {
	// arrange
	strategy := Custom[userImported](resolveUserImported)
	dir := directory{"ext-1": "Grace Hopper"}

	// act
	adapted, err := strategy.Adapt(context.Background(), rawOf(t, userImported{UserID: "u-1", ExternalRef: "ext-1"}), dir)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, event.Events{userRegistered{UserID: "u-1", FirstName: "Grace", LastName: "Hopper"}}, adapted)
}

func Test_Custom_Returns_Its_Errors_Unchanged(t *testing.T) {
	strategy := Custom[userImported](resolveUserImported)

	_, err := strategy.Adapt(context.Background(), rawOf(t, userImported{UserID: "u-1", ExternalRef: "nope"}), directory{})

	assert.Same(t, errUnknownExternalRef, err)
}

func Test_Custom_May_Return_No_Events(t *testing.T) {
	strategy := Custom[userImported](func(context.Context, userImported, directory) (event.Events, error) {
		return event.Events{}, nil
	})

	adapted, err := strategy.Adapt(context.Background(), rawOf(t, userImported{UserID: "u-1"}), nil)

	assert.NoError(t, err)
	assert.Empty(t, adapted)
}

func Test_CustomRaw_Receives_The_Undecoded_Record(t *testing.T) {
	// arrange
	raw, err := event.BuildRaw("user.legacy", 3, []byte(`["u-1","Ada"]`))
	require.NoError(t, err)

	var received event.Raw
	strategy := CustomRaw(func(_ context.Context, raw event.Raw, _ directory) (event.Events, error) {
		received = raw
		return event.Events{userRenamed{UserID: "u-1", Name: "Ada"}}, nil
	})

	// act
	adapted, err := strategy.Adapt(context.Background(), raw, nil)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, raw, received)
	assert.Len(t, adapted, 1)
	assert.Equal(t, KindCustom, strategy.Kind())
}

func Test_Initialized_Marks_All_Outputs(t *testing.T) {
	// arrange
	strategy := Initialized(Split[userRenamedAndDeactivated, directory](func(ev userRenamedAndDeactivated) (event.Events, error) {
		return event.Events{
			userRenamed{UserID: ev.UserID},
			event.MarkInitial[event.Event](userDeactivated{UserID: ev.UserID}),
		}, nil
	}))

	// act
	adapted, err := strategy.Adapt(context.Background(), rawOf(t, userRenamedAndDeactivated{UserID: "u-1"}), nil)

	// assert
	require.NoError(t, err)
	require.Len(t, adapted, 2)

	for _, ev := range adapted {
		assert.True(t, event.IsInitial(ev))
	}

	assert.Equal(t, userRenamed{UserID: "u-1"}, event.Underlying(adapted[0]))
	assert.Equal(t, event.MarkInitial[event.Event](userDeactivated{UserID: "u-1"}), adapted[1])
	assert.Equal(t, KindInitialized, strategy.Kind())
	assert.Equal(t, "initialized(split(adapter_test.userRenamedAndDeactivated))", strategy.String())
}

func Test_Kind_String(t *testing.T) {
	assert.Equal(t, "as_is", KindAsIs.String())
	assert.Equal(t, "into", KindInto.String())
	assert.Equal(t, "skip", KindSkip.String())
	assert.Equal(t, "split", KindSplit.String())
	assert.Equal(t, "custom", KindCustom.String())
	assert.Equal(t, "initialized", KindInitialized.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
