package adapter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

// Key identifies the stored shape of an event: its name and the revision it was recorded under.
type Key struct {
	Name     event.Name
	Revision event.Revision
}

func (k Key) String() string {
	return k.Name + "@" + k.Revision.String()
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}

	return cmp.Compare(a.Revision, b.Revision)
}

// Adapter binds one Key to exactly one Strategy.
type Adapter[C any] struct {
	Key      Key
	Strategy Strategy[C]
}

// Bind creates an Adapter for the given event name and revision.
func Bind[C any](name event.Name, revision event.Revision, strategy Strategy[C]) Adapter[C] {
	return Adapter[C]{
		Key:      Key{Name: name, Revision: revision},
		Strategy: strategy,
	}
}

// BindEvent creates an Adapter for the name and revision reported by the zero value of E.
func BindEvent[E event.Event, C any](strategy Strategy[C]) Adapter[C] {
	var zero E

	return Bind(zero.EventName(), zero.EventRevision(), strategy)
}

// Registry is an immutable mapping from Key to Strategy.
//
// It is built once with NewRegistry and is safe for concurrent use afterward.
type Registry[C any] struct {
	strategies map[Key]Strategy[C]
	keys       []Key
}

// NewRegistry builds a Registry from the given adapters.
//
// It fails with ErrInvalidAdapter for adapters without name, revision or a usable strategy
// and with a DuplicateAdapterError if two adapters share the same Key.
func NewRegistry[C any](adapters ...Adapter[C]) (*Registry[C], error) {
	registry := &Registry[C]{
		strategies: make(map[Key]Strategy[C], len(adapters)),
		keys:       make([]Key, 0, len(adapters)),
	}

	for _, adapter := range adapters {
		if err := validateAdapter(adapter); err != nil {
			return nil, err
		}

		if _, exists := registry.strategies[adapter.Key]; exists {
			return nil, &DuplicateAdapterError{Name: adapter.Key.Name, Revision: adapter.Key.Revision}
		}

		registry.strategies[adapter.Key] = adapter.Strategy
		registry.keys = append(registry.keys, adapter.Key)
	}

	slices.SortFunc(registry.keys, compareKeys)

	return registry, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
// It is meant for package-level registries.
func MustNewRegistry[C any](adapters ...Adapter[C]) *Registry[C] {
	registry, err := NewRegistry(adapters...)
	if err != nil {
		panic(err)
	}

	return registry
}

func validateAdapter[C any](adapter Adapter[C]) error {
	switch {
	case adapter.Key.Name == "":
		return errors.Join(ErrInvalidAdapter, event.ErrEmptyEventName)
	case !adapter.Key.Revision.IsValid():
		return errors.Join(ErrInvalidAdapter, fmt.Errorf("%s: %w", adapter.Key.Name, event.ErrZeroRevision))
	case adapter.Strategy == nil:
		return errors.Join(ErrInvalidAdapter, fmt.Errorf("%s: nil strategy", adapter.Key))
	}

	if err := adapter.Strategy.validate(); err != nil {
		return errors.Join(ErrInvalidAdapter, fmt.Errorf("%s: %w", adapter.Key, err))
	}

	return nil
}

// Lookup returns the Strategy bound to name and revision or an AdapterNotFoundError.
// There is no fallback to other revisions.
func (r *Registry[C]) Lookup(name event.Name, revision event.Revision) (Strategy[C], error) {
	strategy, ok := r.strategies[Key{Name: name, Revision: revision}]
	if !ok {
		return nil, &AdapterNotFoundError{Name: name, Revision: revision}
	}

	return strategy, nil
}

// Len returns the number of adapters.
func (r *Registry[C]) Len() int {
	return len(r.keys)
}

// Keys returns all registered keys sorted by name, then revision.
func (r *Registry[C]) Keys() []Key {
	return slices.Clone(r.keys)
}

// Uncovered returns the keys of all schemas in the set that have no adapter.
func (r *Registry[C]) Uncovered(schemas *event.SchemaSet) []Key {
	uncovered := make([]Key, 0)

	for _, schema := range schemas.All() {
		key := Key{Name: schema.Name, Revision: schema.Revision}
		if _, ok := r.strategies[key]; !ok {
			uncovered = append(uncovered, key)
		}
	}

	return uncovered
}

// Covers returns an error matching ErrUncoveredSchema for every schema in the set that has no adapter,
// or nil if all of them are covered.
func (r *Registry[C]) Covers(schemas *event.SchemaSet) error {
	var errs []error
	for _, key := range r.Uncovered(schemas) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrUncoveredSchema, key))
	}

	return errors.Join(errs...)
}

// NoContext is the context type of registries without Custom strategies.
type NoContext = struct{}
