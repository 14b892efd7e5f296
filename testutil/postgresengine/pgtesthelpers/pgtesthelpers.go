package pgtesthelpers

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AntonStoeckl/event-revisions-go/eventstore"
)

const createTableTemplate = `CREATE TABLE %s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_type      TEXT        NOT NULL,
	revision        INTEGER     NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL,
	payload         JSONB       NOT NULL,
	metadata        JSONB       NOT NULL
)`

// UniqueTableName returns a fresh events table name with the given prefix.
func UniqueTableName(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateTableSQL returns the DDL for an events table.
func CreateTableSQL(tableName string) string {
	return fmt.Sprintf(createTableTemplate, pgx.Identifier{tableName}.Sanitize())
}

// DropTableSQL returns the DDL that removes an events table.
func DropTableSQL(tableName string) string {
	return "DROP TABLE IF EXISTS " + pgx.Identifier{tableName}.Sanitize()
}

// TruncateTableSQL returns the statement that empties an events table and resets its sequence.
func TruncateTableSQL(tableName string) string {
	return "TRUNCATE TABLE " + pgx.Identifier{tableName}.Sanitize() + " RESTART IDENTITY"
}

// InsertSQL builds a prepared INSERT for the given events, which get consecutive sequence numbers in order.
func InsertSQL(tableName string, events ...eventstore.StorableEvent) (string, []any, error) {
	rows := make([]any, 0, len(events))
	for _, storable := range events {
		metadata := storable.MetadataJSON
		if len(metadata) == 0 {
			metadata = []byte("{}")
		}

		rows = append(rows, goqu.Record{
			"event_type":  storable.EventName,
			"revision":    int(storable.Revision.Uint16()),
			"occurred_at": storable.OccurredAt,
			"payload":     string(storable.PayloadJSON),
			"metadata":    string(metadata),
		})
	}

	return goqu.Dialect("postgres").
		Insert(tableName).
		Rows(rows...).
		Prepared(true).
		ToSQL()
}

// RawInsertSQL builds a prepared INSERT for a single row without validating it.
// It is meant for seeding corrupted rows.
func RawInsertSQL(tableName, eventType string, revision int, payload string) (string, []any, error) {
	return goqu.Dialect("postgres").
		Insert(tableName).
		Rows(goqu.Record{
			"event_type":  eventType,
			"revision":    revision,
			"occurred_at": goqu.L("NOW()"),
			"payload":     payload,
			"metadata":    "{}",
		}).
		Prepared(true).
		ToSQL()
}
