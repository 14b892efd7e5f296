package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/event-revisions-go/testutil/postgresengine/config"
	"github.com/AntonStoeckl/event-revisions-go/testutil/postgresengine/pgtesthelpers"
)

// Wrapper abstracts over the different connection types behind a Reader.
type Wrapper interface {
	Reader() postgresengine.Reader
	TableName() string
	Exec(ctx context.Context, query string, args ...any) error
	Close()
}

type base struct {
	reader    postgresengine.Reader
	tableName string
}

func (b *base) Reader() postgresengine.Reader {
	return b.reader
}

func (b *base) TableName() string {
	return b.tableName
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	base
	pool    *pgxpool.Pool
	replica *pgxpool.Pool
}

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.pool.Exec(ctx, query, args...)
	return err
}

func (w *PGXPoolWrapper) Close() {
	if w.replica != nil && w.replica != w.pool {
		w.replica.Close()
	}

	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	base
	db *sql.DB
}

func (w *SQLDBWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.db.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	base
	db *sqlx.DB
}

func (w *SQLXWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.db.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// New creates a Wrapper with a fresh events table, which is dropped when the test ends.
// It skips the test if no database is configured.
func New(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	cfg, err := config.LoadPostgresEnv()
	require.NoError(t, err, "error loading the postgres test config")

	if !cfg.Enabled() {
		t.Skip("EVENTREVISIONS_TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	tableName := pgtesthelpers.UniqueTableName("events")
	options = append([]postgresengine.Option{postgresengine.WithTableName(tableName)}, options...)

	wrapper := newWrapper(t, ctx, cfg, tableName, options)

	require.NoError(t, wrapper.Exec(ctx, pgtesthelpers.CreateTableSQL(tableName)), "error creating the events table")

	t.Cleanup(func() {
		_ = wrapper.Exec(context.Background(), pgtesthelpers.DropTableSQL(tableName)) // best effort
		wrapper.Close()
	})

	return wrapper
}

func newWrapper(
	t testing.TB,
	ctx context.Context,
	cfg config.PostgresEnv,
	tableName string,
	options []postgresengine.Option,
) Wrapper {

	switch cfg.AdapterType {
	case config.AdapterTypePGXPool:
		pool := newPGXPool(t, ctx, cfg.DSN)
		replica := pool
		if cfg.ReplicaDSN != cfg.DSN {
			replica = newPGXPool(t, ctx, cfg.ReplicaDSN)
		}

		reader, err := postgresengine.NewReaderFromPGXPoolWithReplica(pool, replica, options...)
		require.NoError(t, err, "error creating the reader")

		return &PGXPoolWrapper{base: base{reader: reader, tableName: tableName}, pool: pool, replica: replica}

	case config.AdapterTypeSQLDB:
		db, err := config.PostgresSQLDB(ctx, cfg.DSN)
		require.NoError(t, err, "error connecting to the database")

		reader, err := postgresengine.NewReaderFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the reader")

		return &SQLDBWrapper{base: base{reader: reader, tableName: tableName}, db: db}

	case config.AdapterTypeSQLXDB:
		db, err := config.PostgresSQLX(ctx, cfg.DSN)
		require.NoError(t, err, "error connecting to the database")

		reader, err := postgresengine.NewReaderFromSQLX(db, options...)
		require.NoError(t, err, "error creating the reader")

		return &SQLXWrapper{base: base{reader: reader, tableName: tableName}, db: db}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", cfg.AdapterType))
	}
}

func newPGXPool(t testing.TB, ctx context.Context, dsn string) *pgxpool.Pool {
	poolConfig, err := config.PostgresPGXPoolConfig(dsn)
	require.NoError(t, err, "error parsing the pool config")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err, "error connecting to DB pool in test setup")

	return pool
}

// Seed inserts events into the wrapper's table in order.
func Seed(t testing.TB, wrapper Wrapper, events ...eventstore.StorableEvent) {
	t.Helper()

	query, args, err := pgtesthelpers.InsertSQL(wrapper.TableName(), events...)
	require.NoError(t, err, "error building the insert")
	require.NoError(t, wrapper.Exec(context.Background(), query, args...), "error in arranging test data")
}

// SeedRaw inserts one unvalidated row into the wrapper's table.
func SeedRaw(t testing.TB, wrapper Wrapper, eventType string, revision int, payload string) {
	t.Helper()

	query, args, err := pgtesthelpers.RawInsertSQL(wrapper.TableName(), eventType, revision, payload)
	require.NoError(t, err, "error building the insert")
	require.NoError(t, wrapper.Exec(context.Background(), query, args...), "error in arranging test data")
}

// CleanUp empties the wrapper's table.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	err := wrapper.Exec(context.Background(), pgtesthelpers.TruncateTableSQL(wrapper.TableName()))
	require.NoError(t, err, "error cleaning up the events table")
}
