// Package postgreswrapper gives integration tests a Reader over a fresh events table,
// backed by the adapter selected with ADAPTER_TYPE (pgx.pool, sql.db or sqlx.db).
//
// Tests are skipped if EVENTREVISIONS_TEST_POSTGRES_DSN is not set.
package postgreswrapper
