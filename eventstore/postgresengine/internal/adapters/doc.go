// Package adapters provides the database adapters of the PostgreSQL reader.
//
// The adapters hide the differences between pgx.Pool, sql.DB and sqlx.DB behind the DBAdapter interface,
// so the reader can stream rows from any of them.
package adapters
