package event

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrConflictingSchema is returned when two different Go types claim the same name and revision.
var ErrConflictingSchema = errors.New("different event types share the same name and revision")

// Schema describes one event type at one revision.
//
// It replaces compile time reflection: callers build it once, explicitly, and pass it where the
// metadata is needed (e.g. Registry.Covers).
type Schema struct {
	Name     Name
	Revision Revision
	GoType   string
	Fields   []string
}

// DescribeSchema builds the Schema of E from its zero value and the given payload field names.
// Fields are sorted and de-duplicated.
func DescribeSchema[E Event](fields ...string) Schema {
	var zero E

	return Schema{
		Name:     zero.EventName(),
		Revision: zero.EventRevision(),
		GoType:   fmt.Sprintf("%T", zero),
		Fields:   sanitizeFields(fields),
	}
}

func sanitizeFields(fields []string) []string {
	sanitized := slices.DeleteFunc(slices.Clone(fields), func(f string) bool { return f == "" })
	slices.Sort(sanitized)

	return slices.Clip(slices.Compact(sanitized))
}

// HasField reports whether the shape of the Schema contains the given field.
func (s Schema) HasField(field string) bool {
	_, found := slices.BinarySearch(s.Fields, field)

	return found
}

type schemaKey struct {
	name     Name
	revision Revision
}

// SchemaSet is a collection of Schema(s), unique by name and revision.
//
// A SchemaSet is filled once at initialization time and only read afterward.
type SchemaSet struct {
	schemas map[schemaKey]Schema
}

// NewSchemaSet builds a SchemaSet from the given schemas, failing on the first conflict.
func NewSchemaSet(schemas ...Schema) (*SchemaSet, error) {
	set := &SchemaSet{schemas: make(map[schemaKey]Schema, len(schemas))}

	for _, schema := range schemas {
		if err := set.Add(schema); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// Add adds a Schema to the set.
//
// Adding a Schema for an already known name and revision is a no-op when the Go type is the same
// and fails with ErrConflictingSchema when it differs.
func (s *SchemaSet) Add(schema Schema) error {
	if schema.Name == "" {
		return ErrEmptyEventName
	}

	if !schema.Revision.IsValid() {
		return ErrZeroRevision
	}

	key := schemaKey{name: schema.Name, revision: schema.Revision}

	if existing, ok := s.schemas[key]; ok {
		if existing.GoType != schema.GoType {
			return fmt.Errorf(
				"%w: %s@%s is claimed by %s and %s",
				ErrConflictingSchema, schema.Name, schema.Revision, existing.GoType, schema.GoType,
			)
		}

		return nil
	}

	s.schemas[key] = schema

	return nil
}

// Lookup returns the Schema for name and revision.
func (s *SchemaSet) Lookup(name Name, revision Revision) (Schema, bool) {
	schema, ok := s.schemas[schemaKey{name: name, revision: revision}]

	return schema, ok
}

// Len returns the number of schemas in the set.
func (s *SchemaSet) Len() int {
	return len(s.schemas)
}

// All returns all schemas sorted by name, then revision.
func (s *SchemaSet) All() []Schema {
	all := make([]Schema, 0, len(s.schemas))
	for _, schema := range s.schemas {
		all = append(all, schema)
	}

	slices.SortFunc(all, func(a, b Schema) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}

		return cmp.Compare(a.Revision, b.Revision)
	})

	return all
}

// Names returns the distinct event names in the set, sorted.
func (s *SchemaSet) Names() []Name {
	names := make([]Name, 0, len(s.schemas))
	for key := range s.schemas {
		names = append(names, key.name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Revisions returns all known revisions of name in ascending order.
func (s *SchemaSet) Revisions(name Name) []Revision {
	revisions := make([]Revision, 0)
	for key := range s.schemas {
		if key.name == name {
			revisions = append(revisions, key.revision)
		}
	}

	slices.Sort(revisions)

	return revisions
}
