package event_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/event-revisions-go/event"
)

type somethingHappened struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func (somethingHappened) EventName() Name         { return "something.happened" }
func (somethingHappened) EventRevision() Revision { return 3 }

type somethingHappenedV1 struct {
	somethingHappened
}

func (somethingHappenedV1) RecordedRevision() Revision { return 1 }

type somethingElseHappened struct{}

func (somethingElseHappened) EventName() Name         { return "something.happened" }
func (somethingElseHappened) EventRevision() Revision { return 3 }

func Test_NewRevision(t *testing.T) {
	tests := []struct {
		name        string
		input       int
		expected    Revision
		expectedErr error
	}{
		{name: "first revision", input: 1, expected: 1},
		{name: "largest revision", input: math.MaxUint16, expected: math.MaxUint16},
		{name: "zero", input: 0, expectedErr: ErrZeroRevision},
		{name: "negative", input: -1, expectedErr: ErrRevisionOutOfRange},
		{name: "too large", input: math.MaxUint16 + 1, expectedErr: ErrRevisionOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revision, err := NewRevision(tt.input)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, revision.IsValid())

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, revision)
			assert.True(t, revision.IsValid())
		})
	}
}

func Test_MustRevision_Panics_On_Zero(t *testing.T) {
	assert.Panics(t, func() { MustRevision(0) })
	assert.Equal(t, "7", MustRevision(7).String())
	assert.Equal(t, uint16(7), MustRevision(7).Uint16())
}

func Test_RecordedRevisionOf(t *testing.T) {
	assert.Equal(t, Revision(3), RecordedRevisionOf(somethingHappened{}))
	assert.Equal(t, Revision(1), RecordedRevisionOf(somethingHappenedV1{}))
	assert.Equal(t, Revision(3), somethingHappenedV1{}.EventRevision())
}

func Test_Initial_Marker(t *testing.T) {
	// arrange
	ev := somethingHappened{ID: "a", Value: 1}

	// act
	initial := MarkInitial(ev)

	// assert
	assert.True(t, IsInitial(initial))
	assert.False(t, IsInitial(ev))
	assert.Equal(t, ev.EventName(), initial.EventName())
	assert.Equal(t, ev.EventRevision(), initial.EventRevision())
	assert.Equal(t, ev, initial.Unwrap())
	assert.Equal(t, ev, Underlying(initial))
	assert.Equal(t, ev, Underlying(ev))
}

func Test_Underlying_Strips_Nested_Initial_Wrappers(t *testing.T) {
	ev := somethingHappened{ID: "nested"}

	nested := MarkInitial[Event](MarkInitial(ev))

	assert.True(t, IsInitial(nested))
	assert.Equal(t, ev, Underlying(nested))
}

func Test_BuildRaw(t *testing.T) {
	tests := []struct {
		name        string
		eventName   Name
		revision    Revision
		payload     []byte
		expectedErr error
	}{
		{name: "valid", eventName: "something.happened", revision: 1, payload: []byte(`{"id":"a"}`)},
		{name: "empty name", eventName: "", revision: 1, payload: []byte(`{}`), expectedErr: ErrEmptyEventName},
		{name: "zero revision", eventName: "x", revision: 0, payload: []byte(`{}`), expectedErr: ErrZeroRevision},
		{name: "invalid payload", eventName: "x", revision: 1, payload: []byte(`{"id": nope}`), expectedErr: ErrInvalidPayloadJSON},
		{name: "empty payload", eventName: "x", revision: 1, payload: nil, expectedErr: ErrInvalidPayloadJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := BuildRaw(tt.eventName, tt.revision, tt.payload)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.eventName, raw.Name)
			assert.Equal(t, tt.revision, raw.Revision)
			assert.Equal(t, tt.payload, raw.Payload)
			assert.Nil(t, raw.Value)
		})
	}
}

func Test_RawFrom_Keeps_The_Value_And_The_Recorded_Revision(t *testing.T) {
	// arrange
	ev := somethingHappenedV1{somethingHappened{ID: "a", Value: 42}}

	// act
	raw, err := RawFrom(ev)

	// assert
	require.NoError(t, err)
	assert.Equal(t, Name("something.happened"), raw.Name)
	assert.Equal(t, Revision(1), raw.Revision)
	assert.JSONEq(t, `{"id":"a","value":42}`, string(raw.Payload))
	assert.Equal(t, ev, raw.Value)
	assert.Equal(t, uint64(9), raw.WithSequence(9).Sequence)
	assert.Zero(t, raw.Sequence)
}

func Test_RawSlice_Stops_When_The_Consumer_Stops(t *testing.T) {
	// arrange
	raws := make(Raws, 0, 3)
	for i := range 3 {
		raw, err := BuildRaw("x", 1, []byte(`{}`))
		require.NoError(t, err)
		raws = append(raws, raw.WithSequence(uint64(i+1)))
	}

	// act
	seen := make([]uint64, 0)
	for raw, err := range RawSlice(raws...) {
		require.NoError(t, err)
		seen = append(seen, raw.Sequence)

		if len(seen) == 2 {
			break
		}
	}

	// assert
	assert.Equal(t, []uint64{1, 2}, seen)
}

func Test_SchemaSet(t *testing.T) {
	// arrange
	schema := DescribeSchema[somethingHappened]("value", "id", "id", "")

	// act
	set, err := NewSchemaSet(schema, schema)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, []string{"id", "value"}, schema.Fields)
	assert.True(t, schema.HasField("id"))
	assert.False(t, schema.HasField("name"))
	assert.Contains(t, schema.GoType, "somethingHappened")

	found, ok := set.Lookup("something.happened", 3)
	assert.True(t, ok)
	assert.Equal(t, schema, found)

	_, ok = set.Lookup("something.happened", 1)
	assert.False(t, ok)
}

func Test_SchemaSet_Rejects_Conflicting_Types(t *testing.T) {
	_, err := NewSchemaSet(
		DescribeSchema[somethingHappened]("id"),
		DescribeSchema[somethingElseHappened](),
	)

	assert.ErrorIs(t, err, ErrConflictingSchema)
	assert.ErrorContains(t, err, "something.happened@3")
}

func Test_SchemaSet_Rejects_Invalid_Schemas(t *testing.T) {
	set, err := NewSchemaSet()
	require.NoError(t, err)

	assert.ErrorIs(t, set.Add(Schema{Revision: 1}), ErrEmptyEventName)
	assert.ErrorIs(t, set.Add(Schema{Name: "x"}), ErrZeroRevision)
}

func Test_SchemaSet_Listing(t *testing.T) {
	set, err := NewSchemaSet(
		Schema{Name: "b", Revision: 2, GoType: "B2"},
		Schema{Name: "a", Revision: 1, GoType: "A1"},
		Schema{Name: "b", Revision: 1, GoType: "B1"},
	)
	require.NoError(t, err)

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A1", all[0].GoType)
	assert.Equal(t, "B1", all[1].GoType)
	assert.Equal(t, "B2", all[2].GoType)
	assert.Equal(t, []Name{"a", "b"}, set.Names())
	assert.Equal(t, []Revision{1, 2}, set.Revisions("b"))
	assert.Empty(t, set.Revisions("c"))
}
