// Package chat is an example domain with event types that went through several revisions.
//
// Stored streams contain legacy events (chat.created v1, email.added_and_confirmed v2, email.imported v1)
// next to current ones. Per aggregate, an adapter.Registry decides how each stored shape becomes a current event:
//
//	chat.created v1                -> Initialized(Into PrivateChatCreated), chats are private by default
//	chat.private.created v2        -> Initialized(AsIs)
//	chat.public.created v2         -> Initialized(AsIs)
//	message.posted v1              -> AsIs, or Initialized(AsIs) for the Message aggregate
//	chat.archived v1               -> Skip, the feature was removed
//	email.added_and_confirmed v2   -> Split into Initial(EmailAdded) and EmailConfirmed
//	email.imported v1              -> Custom, resolved with a Directory
//
// A Repository reads one stream through a RawSource, transforms it, and folds it into the aggregates.
package chat
