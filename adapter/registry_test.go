package adapter_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/event"
)

func Test_Registry_Lookup_Succeeds_For_Every_Registered_Key(t *testing.T) {
	// arrange
	adapters := userAdapters()

	// act
	registry, err := NewRegistry(adapters...)

	// assert
	require.NoError(t, err)
	assert.Equal(t, len(adapters), registry.Len())

	for _, adapter := range adapters {
		strategy, lookupErr := registry.Lookup(adapter.Key.Name, adapter.Key.Revision)

		require.NoError(t, lookupErr, adapter.Key.String())
		assert.Equal(t, adapter.Strategy.Kind(), strategy.Kind(), adapter.Key.String())
		assert.Equal(t, adapter.Strategy.String(), strategy.String(), adapter.Key.String())
	}
}

func Test_Registry_Lookup_Fails_For_Unregistered_Keys(t *testing.T) {
	registry := userRegistry(t)

	tests := []struct {
		name      string
		eventName event.Name
		revision  event.Revision
	}{
		{name: "unknown name", eventName: "user.deleted", revision: 1},
		{name: "known name with unknown revision", eventName: "user.registered", revision: 3},
		{name: "known name with older unknown revision", eventName: "user.renamed", revision: 2},
		{name: "empty name", eventName: "", revision: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := registry.Lookup(tt.eventName, tt.revision)

			assert.Nil(t, strategy)
			assert.ErrorIs(t, err, ErrAdapterNotFound)

			var notFound *AdapterNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.eventName, notFound.Name)
			assert.Equal(t, tt.revision, notFound.Revision)
		})
	}
}

func Test_NewRegistry_Fails_On_Duplicate_Adapter(t *testing.T) {
	// arrange
	adapters := append(userAdapters(), Bind("user.renamed", 1, Skip[directory]()))

	// act
	registry, err := NewRegistry(adapters...)

	// assert
	assert.Nil(t, registry)
	assert.ErrorIs(t, err, ErrDuplicateAdapter)
	assert.EqualError(t, err, "adapter already registered for event: user.renamed@1")

	var duplicate *DuplicateAdapterError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, Key{Name: "user.renamed", Revision: 1}, Key{Name: duplicate.Name, Revision: duplicate.Revision})
}

func Test_NewRegistry_Fails_On_Invalid_Adapters(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter[directory]
	}{
		{name: "empty name", adapter: Bind("", 1, Skip[directory]())},
		{name: "zero revision", adapter: Bind("user.renamed", 0, Skip[directory]())},
		{name: "nil strategy", adapter: Bind[directory]("user.renamed", 1, nil)},
		{name: "nil into func", adapter: Bind("user.registered", 1, Into[userRegisteredV1, userRegistered, directory](nil))},
		{name: "nil split func", adapter: Bind("user.renamed_and_deactivated", 1, Split[userRenamedAndDeactivated, directory](nil))},
		{name: "nil custom func", adapter: Bind("user.imported", 1, Custom[userImported, directory](nil))},
		{name: "nil custom raw func", adapter: Bind("user.imported", 1, CustomRaw[directory](nil))},
		{name: "nil initialized inner", adapter: Bind("user.registered", 2, Initialized[directory](nil))},
		{name: "initialized with invalid inner", adapter: Bind("user.registered", 2, Initialized(Split[userRegistered, directory](nil)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewRegistry(tt.adapter)

			assert.Nil(t, registry)
			assert.ErrorIs(t, err, ErrInvalidAdapter)
		})
	}
}

func Test_MustNewRegistry_Panics_On_Error(t *testing.T) {
	assert.Panics(t, func() {
		MustNewRegistry(Bind("x", 1, Skip[directory]()), Bind("x", 1, Skip[directory]()))
	})

	assert.NotPanics(t, func() {
		MustNewRegistry(userAdapters()...)
	})
}

func Test_Registry_Keys_Are_Sorted(t *testing.T) {
	registry := userRegistry(t)

	assert.Equal(
		t,
		[]Key{
			{Name: "user.deactivated", Revision: 1},
			{Name: "user.imported", Revision: 1},
			{Name: "user.registered", Revision: 1},
			{Name: "user.registered", Revision: 2},
			{Name: "user.renamed", Revision: 1},
			{Name: "user.renamed_and_deactivated", Revision: 1},
			{Name: "user.retired_flag_set", Revision: 1},
		},
		registry.Keys(),
	)
}

func Test_Registry_Covers(t *testing.T) {
	// arrange
	registry := userRegistry(t)

	covered, err := event.NewSchemaSet(
		event.DescribeSchema[userRegisteredV1]("user_id", "name"),
		event.DescribeSchema[userRegistered]("user_id", "first_name", "last_name"),
		event.DescribeSchema[userRenamed]("user_id", "name"),
	)
	require.NoError(t, err)

	uncovered, err := event.NewSchemaSet(
		event.DescribeSchema[userRenamed]("user_id", "name"),
		event.Schema{Name: "user.renamed", Revision: 2, GoType: "userRenamedV2"},
		event.Schema{Name: "user.deleted", Revision: 1, GoType: "userDeleted"},
	)
	require.NoError(t, err)

	// act + assert
	assert.NoError(t, registry.Covers(covered))
	assert.Empty(t, registry.Uncovered(covered))

	err = registry.Covers(uncovered)
	assert.ErrorIs(t, err, ErrUncoveredSchema)
	assert.ErrorContains(t, err, "user.renamed@2")
	assert.ErrorContains(t, err, "user.deleted@1")
	assert.Equal(
		t,
		[]Key{{Name: "user.deleted", Revision: 1}, {Name: "user.renamed", Revision: 2}},
		registry.Uncovered(uncovered),
	)
}

func Test_Registry_Is_Safe_For_Concurrent_Lookups(t *testing.T) {
	registry := userRegistry(t)
	keys := registry.Keys()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				for _, key := range keys {
					_, err := registry.Lookup(key.Name, key.Revision)
					assert.NoError(t, err)
				}
			}
		}()
	}

	wg.Wait()
}
