package chat

import (
	"context"
	"iter"

	"github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/aggregate"
	"github.com/AntonStoeckl/event-revisions-go/event"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
)

// RawSource delivers the raw events of one stream, e.g. postgresengine.Reader.
type RawSource interface {
	Stream(ctx context.Context, filter eventstore.StreamFilter) iter.Seq2[event.Raw, error]
}

// Repository loads the aggregates of one stream.
type Repository struct {
	source    RawSource
	directory Directory
	chats     *adapter.Transformer[adapter.NoContext]
	emails    *adapter.Transformer[Directory]
	messages  *adapter.Transformer[adapter.NoContext]
}

// NewRepository creates a Repository. The options configure all of its Transformers.
func NewRepository(source RawSource, directory Directory, options ...adapter.Option) (*Repository, error) {
	chats, err := adapter.NewTransformer(ChatRegistry, options...)
	if err != nil {
		return nil, err
	}

	emails, err := adapter.NewTransformer(EmailRegistry, options...)
	if err != nil {
		return nil, err
	}

	messages, err := adapter.NewTransformer(MessageRegistry, options...)
	if err != nil {
		return nil, err
	}

	return &Repository{
		source:    source,
		directory: directory,
		chats:     chats,
		emails:    emails,
		messages:  messages,
	}, nil
}

// Chat loads the Chat of the stream. It returns false if the stream has no chat.
func (r *Repository) Chat(ctx context.Context) (Chat, bool, error) {
	filter := streamOf(ChatEventNames()).Finalize()
	events := r.chats.TransformAll(ctx, r.source.Stream(ctx, filter), adapter.NoContext{})

	return state(aggregate.Fold[Chat](ChatHandlers, events))
}

// Email loads the Email of the stream. It returns false if the stream has no email.
func (r *Repository) Email(ctx context.Context) (Email, bool, error) {
	filter := streamOf(EmailEventNames()).Finalize()
	events := r.emails.TransformAll(ctx, r.source.Stream(ctx, filter), r.directory)

	return state(aggregate.Fold[Email](EmailHandlers, events))
}

// Message loads the first Message of the stream. It returns false if the stream has no message.
// Later messages are not read.
func (r *Repository) Message(ctx context.Context) (Message, bool, error) {
	filter := streamOf([]event.Name{MessagePostedEventName}).Limit(1).Finalize()
	events := r.messages.TransformAll(ctx, r.source.Stream(ctx, filter), adapter.NoContext{})

	return state(aggregate.Fold[Message](MessageHandlers, events))
}

func streamOf(names []event.Name) eventstore.StreamFilterBuilder {
	return eventstore.BuildStreamFilter().WithEventNames(names[0], names[1:]...)
}

func state[S any](root *aggregate.Root[S], err error) (S, bool, error) {
	if err != nil {
		var zero S
		return zero, false, err
	}

	current, exists := root.State()

	return current, exists, nil
}
