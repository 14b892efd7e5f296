// Package aggregate provides the contract event-sourced aggregates implement and the fold that applies
// an ordered event stream to them.
//
// The first event of an aggregate must be marked with event.Initial and is passed to Init; every later
// event is passed to Apply. Violations fail with ErrMissingInitialEvent or ErrDuplicateInitialEvent.
//
// Common usage pattern:
//
//	handlers := aggregate.NewHandlers[Chat]().
//		OnInit(ChatCreatedEventName, aggregate.InitWith(func(ev ChatCreated) (Chat, error) { ... })).
//		On(MessagePostedEventName, aggregate.ApplyWith(func(c Chat, ev MessagePosted) (Chat, error) { ... }))
//
//	root, err := aggregate.Fold[Chat](handlers, transformer.TransformAll(ctx, raws, nil))
//	chat, exists := root.State()
package aggregate
