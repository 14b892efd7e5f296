// Package config provides PostgreSQL connection configuration for Reader integration tests.
//
// The DSNs are read from the environment with caarlos0/env:
//
//	EVENTREVISIONS_TEST_POSTGRES_DSN: primary database, integration tests are skipped if unset
//	EVENTREVISIONS_TEST_POSTGRES_REPLICA_DSN: optional replica, defaults to the primary
//	ADAPTER_TYPE: pgx.pool (default), sql.db or sqlx.db
//
// Factory functions create connections for the Reader's supported adapters (pgx.Pool, sql.DB, sqlx.DB).
package config
