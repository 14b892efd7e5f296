// Package postgresengine provides a PostgreSQL raw event source.
//
// The Reader selects rows of an events table with a goqu-built query and delivers them either as a lazy
// iter.Seq2[event.Raw, error] for an adapter.Transformer or as collected eventstore.StorableEvents.
// It works with pgx.Pool (optionally with a replica), sql.DB, and sqlx.DB connections.
//
// Expected table layout:
//
//	CREATE TABLE events (
//		sequence_number BIGSERIAL PRIMARY KEY,
//		event_type      TEXT        NOT NULL,
//		revision        INTEGER     NOT NULL,
//		occurred_at     TIMESTAMPTZ NOT NULL,
//		payload         JSONB       NOT NULL,
//		metadata        JSONB       NOT NULL
//	);
//
// Example usage:
//
//	reader, err := postgresengine.NewReaderFromPGXPool(pool, postgresengine.WithTableName("chat_events"))
//
//	filter := eventstore.BuildStreamFilter().WithEventNames(chatEventNames...).Finalize()
//	root, err := aggregate.Fold[Chat](chatHandlers, transformer.TransformAll(ctx, reader.Stream(ctx, filter), adapter.NoContext{}))
//
// Streams hold a database connection until the rows are exhausted or the consumer stops pulling.
package postgresengine
