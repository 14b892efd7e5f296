package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/event-revisions-go/event"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"
	dialectPostgres       = "postgres"
	colSequenceNumber     = "sequence_number"
	colEventType          = "event_type"
	colRevision           = "revision"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
)

type sqlQueryString = string

// Reader is a read-only raw event source over a Postgres events table with the columns
// sequence_number, event_type, revision, occurred_at, payload and metadata.
//
// A Reader is safe for concurrent use. Streams are independent of each other.
type Reader struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewReaderFromPGXPool creates a new Reader using a pgx Pool with optional configuration.
func NewReaderFromPGXPool(db *pgxpool.Pool, options ...Option) (Reader, error) {
	if db == nil {
		return Reader{}, eventstore.ErrNilDatabaseConnection
	}

	return newReader(adapters.NewPGXAdapter(db), options...)
}

// NewReaderFromPGXPoolWithReplica creates a new Reader using a primary and a replica pgx Pool.
//
// Streams use the replica only if their context was prepared with eventstore.WithEventualConsistency.
func NewReaderFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Reader, error) {
	if db == nil || replica == nil {
		return Reader{}, eventstore.ErrNilDatabaseConnection
	}

	return newReader(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewReaderFromSQLDB creates a new Reader using a sql.DB with optional configuration.
func NewReaderFromSQLDB(db *sql.DB, options ...Option) (Reader, error) {
	if db == nil {
		return Reader{}, eventstore.ErrNilDatabaseConnection
	}

	return newReader(adapters.NewSQLAdapter(db), options...)
}

// NewReaderFromSQLX creates a new Reader using a sqlx.DB with optional configuration.
func NewReaderFromSQLX(db *sqlx.DB, options ...Option) (Reader, error) {
	if db == nil {
		return Reader{}, eventstore.ErrNilDatabaseConnection
	}

	return newReader(adapters.NewSQLXAdapter(db), options...)
}

func newReader(db adapters.DBAdapter, options ...Option) (Reader, error) {
	r := Reader{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&r); err != nil {
			return Reader{}, err
		}
	}

	return r, nil
}

// Stream returns a lazy raw event stream of the events matching filter, ordered by sequence number.
//
// The query runs when the first value is pulled. Rows are scanned one at a time and the database rows are
// closed as soon as the consumer stops pulling. The stream ends after yielding the first error.
func (r Reader) Stream(ctx context.Context, filter eventstore.StreamFilter) iter.Seq2[event.Raw, error] {
	return func(yield func(event.Raw, error) bool) {
		for storable, err := range r.storableEvents(ctx, filter) {
			if err != nil {
				yield(event.Raw{}, err)
				return
			}

			if !yield(storable.ToRaw(), nil) {
				return
			}
		}
	}
}

// Query retrieves all events matching filter, ordered by sequence number.
func (r Reader) Query(ctx context.Context, filter eventstore.StreamFilter) (eventstore.StorableEvents, error) {
	var empty eventstore.StorableEvents
	eventStream := make(eventstore.StorableEvents, 0)

	for storable, err := range r.storableEvents(ctx, filter) {
		if err != nil {
			return empty, err
		}

		eventStream = append(eventStream, storable)
	}

	return eventStream, nil
}

func (r Reader) storableEvents(
	ctx context.Context,
	filter eventstore.StreamFilter,
) iter.Seq2[eventstore.StorableEvent, error] {

	return func(yield func(eventstore.StorableEvent, error) bool) {
		run := r.startStream(ctx, filter)

		sqlQuery, buildQueryErr := r.buildSelectQuery(filter)
		if buildQueryErr != nil {
			run.failed(logMsgBuildSelectQueryFailed, errorTypeBuildQuery, buildQueryErr)
			yield(eventstore.StorableEvent{}, buildQueryErr)

			return
		}

		rows, queryErr := r.executeQuery(run, sqlQuery)
		if queryErr != nil {
			yield(eventstore.StorableEvent{}, queryErr)
			return
		}
		defer run.closeRows(rows)

		for rows.Next() {
			storable, scanErr := run.scanRow(rows)
			if scanErr != nil {
				yield(eventstore.StorableEvent{}, scanErr)
				return
			}

			run.eventCount++

			if !yield(storable, nil) {
				run.finishStopped()
				return
			}
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			err := errors.Join(eventstore.ErrIteratingRowsFailed, rowsErr)
			run.failed(logMsgIterateRowsFailed, errorTypeRowIteration, err)
			yield(eventstore.StorableEvent{}, err)

			return
		}

		run.finishSuccess()
	}
}

// executeQuery executes the SQL query and logs it with its timing.
func (r Reader) executeQuery(run *streamRun, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := r.db.Query(run.ctx, sqlQuery)
	run.queryExecuted(sqlQuery, time.Since(start))

	if queryErr != nil {
		err := errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
		run.failed(logMsgDBQueryFailed, errorTypeDatabaseQuery, err, logAttrQuery, sqlQuery)

		return nil, err
	}

	return rows, nil
}

// scanRow converts the current row into a StorableEvent.
func (run *streamRun) scanRow(rows adapters.DBRows) (eventstore.StorableEvent, error) {
	var (
		sequenceNumber int64
		eventName      string
		revision       int32
		occurredAt     time.Time
		payload        []byte
		metadata       []byte
	)

	if scanErr := rows.Scan(&sequenceNumber, &eventName, &revision, &occurredAt, &payload, &metadata); scanErr != nil {
		err := errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		run.failed(logMsgScanRowFailed, errorTypeRowScan, err)

		return eventstore.StorableEvent{}, err
	}

	rev, revisionErr := event.NewRevision(int(revision))
	if revisionErr != nil {
		err := errors.Join(eventstore.ErrBuildingStorableEventFailed, revisionErr)
		run.failed(logMsgBuildStorableEventFailed, errorTypeBuildStorableEvent, err, logAttrEventType, eventName)

		return eventstore.StorableEvent{}, err
	}

	storable, buildErr := eventstore.BuildStorableEvent(eventName, rev, occurredAt, payload, metadata)
	if buildErr != nil {
		err := errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		run.failed(logMsgBuildStorableEventFailed, errorTypeBuildStorableEvent, err, logAttrEventType, eventName)

		return eventstore.StorableEvent{}, err
	}

	return storable.WithSequenceNumber(uint64(sequenceNumber)), nil //nolint:gosec // sequence numbers are positive
}

func (r Reader) buildSelectQuery(filter eventstore.StreamFilter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.eventTableName).
		Select(colSequenceNumber, colEventType, colRevision, colOccurredAt, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())

	if conditions := whereConditions(filter); len(conditions) > 0 {
		selectStmt = selectStmt.Where(conditions...)
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(filter.Limit())
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func whereConditions(filter eventstore.StreamFilter) []exp.Expression {
	var conditions []exp.Expression

	if eventNames := filter.EventNames(); len(eventNames) > 0 {
		conditions = append(conditions, goqu.C(colEventType).In(eventNames))
	}

	if filter.MaxRevision().IsValid() {
		conditions = append(conditions, goqu.C(colRevision).Lte(filter.MaxRevision().Uint16()))
	}

	if filter.AfterSequence() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(filter.AfterSequence()))
	}

	if !filter.OccurredFrom().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	return conditions
}
