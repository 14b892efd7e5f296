package postgresengine

import (
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine/internal/adapters"
)

// NewReaderWithDBAdapter exposes the Reader construction for tests with fake database adapters.
func NewReaderWithDBAdapter(db adapters.DBAdapter, options ...Option) (Reader, error) {
	return newReader(db, options...)
}

// BuildSelectQuery exposes the query building for tests.
func (r Reader) BuildSelectQuery(filter eventstore.StreamFilter) (string, error) {
	return r.buildSelectQuery(filter)
}
