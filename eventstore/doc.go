// Package eventstore provides the storage-side types of raw event streams:
// the rows of an events table and the filter that selects them.
//
// DB specific readers, like the one in the postgresengine package, turn a StreamFilter into a query
// and deliver the matching rows as StorableEvents, or directly as a lazy stream of event.Raw
// for an adapter.Transformer.
//
// Key types:
//   - StorableEvent: One row of the events table, including the revision the event was recorded with
//   - StreamFilter: Selects rows by event names, revision ceiling, sequence window, time range and limit
//   - ConsistencyLevel: Lets a reader use a replica for queries that tolerate stale data
//
// Common usage pattern:
//
//	filter := eventstore.BuildStreamFilter().
//		WithEventNames("chat.created", "chat.private.created", "message.posted").
//		AfterSequence(lastSeen).
//		Finalize()
//
//	for ev, err := range transformer.TransformAll(ctx, reader.Stream(ctx, filter), adapter.NoContext{}) {
//		if err != nil {
//			// handle error
//		}
//		// apply ev
//	}
package eventstore
