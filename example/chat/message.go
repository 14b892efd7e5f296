package chat

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/event-revisions-go/aggregate"
)

// Message is the state of the message aggregate, created by the first posted message of a stream.
type Message struct {
	ID     uuid.UUID
	ChatID uuid.UUID
	Text   string
}

// MessageHandlers folds transformed message streams into a Message.
var MessageHandlers = aggregate.NewHandlers[Message]().
	OnInit(MessagePostedEventName, aggregate.InitWith(func(ev MessagePosted) (Message, error) {
		return Message{ID: ev.MessageID, ChatID: ev.ChatID, Text: ev.Text}, nil
	}))
