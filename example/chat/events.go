package chat

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

const (
	ChatCreatedV1EventName            = "chat.created"
	PrivateChatCreatedEventName       = "chat.private.created"
	PublicChatCreatedEventName        = "chat.public.created"
	MessagePostedEventName            = "message.posted"
	ChatArchivedEventName             = "chat.archived"
	EmailAddedAndConfirmedV2EventName = "email.added_and_confirmed"
	EmailAddedEventName               = "email.added"
	EmailConfirmedEventName           = "email.confirmed"
	EmailImportedV1EventName          = "email.imported"
)

// ChatCreatedV1 is the legacy creation event from before chats had a visibility.
type ChatCreatedV1 struct {
	ChatID uuid.UUID `json:"chat_id"`
}

func (ChatCreatedV1) EventName() event.Name         { return ChatCreatedV1EventName }
func (ChatCreatedV1) EventRevision() event.Revision { return 1 }

type PrivateChatCreated struct {
	ChatID uuid.UUID `json:"chat_id"`
}

func (PrivateChatCreated) EventName() event.Name         { return PrivateChatCreatedEventName }
func (PrivateChatCreated) EventRevision() event.Revision { return 2 }

type PublicChatCreated struct {
	ChatID uuid.UUID `json:"chat_id"`
}

func (PublicChatCreated) EventName() event.Name         { return PublicChatCreatedEventName }
func (PublicChatCreated) EventRevision() event.Revision { return 2 }

type MessagePosted struct {
	ChatID    uuid.UUID `json:"chat_id"`
	MessageID uuid.UUID `json:"message_id"`
	Text      string    `json:"text"`
}

func (MessagePosted) EventName() event.Name         { return MessagePostedEventName }
func (MessagePosted) EventRevision() event.Revision { return 1 }

// ChatArchived belongs to a removed feature. Stored instances are skipped.
type ChatArchived struct {
	ChatID uuid.UUID `json:"chat_id"`
}

func (ChatArchived) EventName() event.Name         { return ChatArchivedEventName }
func (ChatArchived) EventRevision() event.Revision { return 1 }

// EmailAddedAndConfirmedV2 was replaced by EmailAdded and EmailConfirmed in revision 3.
type EmailAddedAndConfirmedV2 struct {
	Email       string  `json:"email"`
	ConfirmedBy *string `json:"confirmed_by,omitempty"`
}

func (EmailAddedAndConfirmedV2) EventName() event.Name         { return EmailAddedAndConfirmedV2EventName }
func (EmailAddedAndConfirmedV2) EventRevision() event.Revision { return 2 }

type EmailAdded struct {
	Email string `json:"email"`
}

func (EmailAdded) EventName() event.Name         { return EmailAddedEventName }
func (EmailAdded) EventRevision() event.Revision { return 3 }

type EmailConfirmed struct {
	ConfirmedBy string `json:"confirmed_by"`
}

func (EmailConfirmed) EventName() event.Name         { return EmailConfirmedEventName }
func (EmailConfirmed) EventRevision() event.Revision { return 3 }

// EmailImportedV1 only references an entry of an external directory, which holds the address.
type EmailImportedV1 struct {
	ExternalRef string `json:"external_ref"`
}

func (EmailImportedV1) EventName() event.Name         { return EmailImportedV1EventName }
func (EmailImportedV1) EventRevision() event.Revision { return 1 }

// ChatEventNames are the stored event names that a chat stream can contain.
func ChatEventNames() []event.Name {
	return []event.Name{
		ChatCreatedV1EventName,
		PrivateChatCreatedEventName,
		PublicChatCreatedEventName,
		MessagePostedEventName,
		ChatArchivedEventName,
	}
}

// EmailEventNames are the stored event names that an email stream can contain.
func EmailEventNames() []event.Name {
	return []event.Name{
		EmailAddedAndConfirmedV2EventName,
		EmailAddedEventName,
		EmailConfirmedEventName,
		EmailImportedV1EventName,
	}
}

// MustSchemas is like Schemas but panics on error.
func MustSchemas() *event.SchemaSet {
	schemas, err := Schemas()
	if err != nil {
		panic(err)
	}

	return schemas
}

// Schemas describes every event type that may be found in stored streams.
func Schemas() (*event.SchemaSet, error) {
	return event.NewSchemaSet(
		event.DescribeSchema[ChatCreatedV1]("chat_id"),
		event.DescribeSchema[PrivateChatCreated]("chat_id"),
		event.DescribeSchema[PublicChatCreated]("chat_id"),
		event.DescribeSchema[MessagePosted]("chat_id", "message_id", "text"),
		event.DescribeSchema[ChatArchived]("chat_id"),
		event.DescribeSchema[EmailAddedAndConfirmedV2]("email", "confirmed_by"),
		event.DescribeSchema[EmailAdded]("email"),
		event.DescribeSchema[EmailConfirmed]("confirmed_by"),
		event.DescribeSchema[EmailImportedV1]("external_ref"),
	)
}
