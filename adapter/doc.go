// Package adapter turns persisted raw events, possibly recorded under older revisions, into the events
// current aggregate code expects.
//
// An Adapter binds one event name and revision to exactly one Strategy:
//   - AsIs: The stored shape is the current shape
//   - Into: Infallible conversion into exactly one other event
//   - Skip: Retired event, produces nothing
//   - Split: One stored event becomes an ordered, non-empty sequence of events
//   - Custom / CustomRaw: Caller-supplied logic with access to a context value of type C
//   - Initialized: Marks all outputs of another Strategy as initial events
//
// Adapters are collected into an immutable Registry, which a Transformer applies to raw event streams.
// Transformation is lazy, ordered and fails fast: the first missing adapter, strategy error, or source error
// ends the stream.
//
// Common usage pattern:
//
//	registry := adapter.MustNewRegistry(
//		adapter.BindEvent[ChatCreatedV1](adapter.Initialized(
//			adapter.Into[ChatCreatedV1, PrivateChatCreated, adapter.NoContext](upgradeChatCreated))),
//		adapter.BindEvent[MessagePosted](adapter.AsIs[MessagePosted, adapter.NoContext]()),
//		adapter.BindEvent[ChatArchived](adapter.Skip[adapter.NoContext]()),
//	)
//
//	transformer, err := adapter.NewTransformer(registry, adapter.WithLogger(logger))
//
//	for ev, err := range transformer.TransformAll(ctx, reader.Stream(ctx, filter), adapter.NoContext{}) {
//		if err != nil {
//			// handle error
//		}
//		// apply ev
//	}
package adapter
