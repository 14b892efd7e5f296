package postgresengine_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine/internal/adapters"
)

var (
	errConnectionRefused = errors.New("connection refused")
	errConnectionReset   = errors.New("connection reset by peer")
	errColumnType        = errors.New("cannot scan column")
)

// fakeRow holds the column values of one events table row in select order.
// An error value makes Scan fail.
type fakeRow []any

func row(sequenceNumber int64, eventName string, revision int32, payload string) fakeRow {
	return fakeRow{
		sequenceNumber,
		eventName,
		revision,
		time.Unix(sequenceNumber, 0).UTC(),
		[]byte(payload),
		[]byte(`{}`),
	}
}

// fakeDB is a DBAdapter that serves a fixed set of rows for every query.
type fakeDB struct {
	rows     []fakeRow
	queryErr error
	iterErr  error
	queries  []string
	contexts []context.Context
	opened   []*fakeRows
	mu       sync.Mutex
}

func (db *fakeDB) Query(ctx context.Context, query string) (adapters.DBRows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.queries = append(db.queries, query)
	db.contexts = append(db.contexts, ctx)

	if db.queryErr != nil {
		return nil, db.queryErr
	}

	rows := &fakeRows{rows: db.rows, iterErr: db.iterErr}
	db.opened = append(db.opened, rows)

	return rows, nil
}

func (db *fakeDB) queryCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.queries)
}

func (db *fakeDB) lastRows() *fakeRows {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.opened) == 0 {
		return nil
	}

	return db.opened[len(db.opened)-1]
}

type fakeRows struct {
	rows    []fakeRow
	iterErr error
	pos     int
	closed  int
}

func (r *fakeRows) Next() bool {
	if r.closed > 0 || r.pos >= len(r.rows) {
		return false
	}

	r.pos++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	current := r.rows[r.pos-1]
	if len(dest) != len(current) {
		return fmt.Errorf("expected %d destinations, got %d", len(current), len(dest))
	}

	for i, value := range current {
		if err, ok := value.(error); ok {
			return err
		}

		switch d := dest[i].(type) {
		case *int64:
			*d = value.(int64)
		case *int32:
			*d = value.(int32)
		case *string:
			*d = value.(string)
		case *time.Time:
			*d = value.(time.Time)
		case *[]byte:
			*d = value.([]byte)
		default:
			return fmt.Errorf("unsupported destination %T", dest[i])
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	if r.pos >= len(r.rows) {
		return r.iterErr
	}

	return nil
}

func (r *fakeRows) Close() error {
	r.closed++
	return nil
}
