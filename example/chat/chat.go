package chat

import (
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/event-revisions-go/aggregate"
)

// ErrForeignMessage is returned when a message of another chat is applied to a Chat.
var ErrForeignMessage = errors.New("message belongs to another chat")

// Visibility of a Chat.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Chat is the state of the chat aggregate.
type Chat struct {
	ID           uuid.UUID
	Visibility   Visibility
	MessageCount int
}

// ChatHandlers folds transformed chat streams into a Chat.
var ChatHandlers = aggregate.NewHandlers[Chat]().
	OnInit(PrivateChatCreatedEventName, aggregate.InitWith(func(ev PrivateChatCreated) (Chat, error) {
		return Chat{ID: ev.ChatID, Visibility: VisibilityPrivate}, nil
	})).
	OnInit(PublicChatCreatedEventName, aggregate.InitWith(func(ev PublicChatCreated) (Chat, error) {
		return Chat{ID: ev.ChatID, Visibility: VisibilityPublic}, nil
	})).
	On(MessagePostedEventName, aggregate.ApplyWith(func(state Chat, ev MessagePosted) (Chat, error) {
		if ev.ChatID != state.ID {
			return state, ErrForeignMessage
		}

		state.MessageCount++

		return state, nil
	}))
