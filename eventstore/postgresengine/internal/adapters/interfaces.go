package adapters

import "context"

// DBAdapter defines the database operations needed by the reader.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
}

// DBRows defines the interface for query result rows.
//
// Err reports the error that ended the iteration, if any. Close must be safe to call more than once.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
