// Package event provides the event and revision model shared by aggregates, adapters and event sources.
//
// Every event type has a stable name and a current, non-zero revision. A stored instance of an event
// can carry an older revision; such events implement Versioned.
//
// Key types:
//   - Revision: Schema version ordinal of an event type
//   - Event / Versioned: Contracts for current and historically recorded events
//   - Initial: Explicit marker for the event that creates an aggregate
//   - Raw: A persisted event record (name, revision, opaque JSON payload)
//   - Schema / SchemaSet: Explicit, queryable descriptors of event types
//
// Common usage pattern:
//
//	type ChatArchived struct {
//		ChatID string `json:"chat_id"`
//	}
//
//	func (ChatArchived) EventName() event.Name         { return "chat.archived" }
//	func (ChatArchived) EventRevision() event.Revision { return 1 }
//
//	raw, err := event.BuildRaw("chat.archived", 1, payloadJSON)
//	schemas, err := event.NewSchemaSet(event.DescribeSchema[ChatArchived]("chat_id"))
package event
