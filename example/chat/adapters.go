package chat

import (
	"context"

	"github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/event"
)

// Chats are private by default.
func upgradeChatCreated(ev ChatCreatedV1) PrivateChatCreated {
	return PrivateChatCreated(ev)
}

func splitEmailAddedAndConfirmed(ev EmailAddedAndConfirmedV2) (event.Events, error) {
	added := event.MarkInitial[event.Event](EmailAdded{Email: ev.Email})

	if ev.ConfirmedBy == nil {
		return event.Events{added}, nil
	}

	return event.Events{added, EmailConfirmed{ConfirmedBy: *ev.ConfirmedBy}}, nil
}

func resolveEmailImport(ctx context.Context, ev EmailImportedV1, directory Directory) (event.Events, error) {
	entry, err := directory.Lookup(ctx, ev.ExternalRef)
	if err != nil {
		return nil, err
	}

	events := event.Events{event.MarkInitial[event.Event](EmailAdded{Email: entry.Email})}
	if entry.ConfirmedBy != "" {
		events = append(events, EmailConfirmed{ConfirmedBy: entry.ConfirmedBy})
	}

	return events, nil
}

func skipAll[C any](names ...event.Name) []adapter.Adapter[C] {
	schemas := MustSchemas()

	adapters := make([]adapter.Adapter[C], 0)
	for _, name := range names {
		for _, revision := range schemas.Revisions(name) {
			adapters = append(adapters, adapter.Bind(name, revision, adapter.Skip[C]()))
		}
	}

	return adapters
}

// ChatRegistry adapts every stored event shape for the Chat aggregate.
// Email events are skipped, so mixed streams can be folded.
var ChatRegistry = adapter.MustNewRegistry(append(
	[]adapter.Adapter[adapter.NoContext]{
		adapter.BindEvent[ChatCreatedV1](adapter.Initialized(
			adapter.Into[ChatCreatedV1, PrivateChatCreated, adapter.NoContext](upgradeChatCreated),
		)),
		adapter.BindEvent[PrivateChatCreated](adapter.Initialized(adapter.AsIs[PrivateChatCreated, adapter.NoContext]())),
		adapter.BindEvent[PublicChatCreated](adapter.Initialized(adapter.AsIs[PublicChatCreated, adapter.NoContext]())),
		adapter.BindEvent[MessagePosted](adapter.AsIs[MessagePosted, adapter.NoContext]()),
		adapter.BindEvent[ChatArchived](adapter.Skip[adapter.NoContext]()),
	},
	skipAll[adapter.NoContext](EmailEventNames()...)...,
)...)

// EmailRegistry adapts every stored event shape for the Email aggregate.
// Imported addresses are resolved with the Directory handed to TransformAll.
var EmailRegistry = adapter.MustNewRegistry(append(
	[]adapter.Adapter[Directory]{
		adapter.BindEvent[EmailAddedAndConfirmedV2](adapter.Split[EmailAddedAndConfirmedV2, Directory](splitEmailAddedAndConfirmed)),
		adapter.BindEvent[EmailAdded](adapter.Initialized(adapter.AsIs[EmailAdded, Directory]())),
		adapter.BindEvent[EmailConfirmed](adapter.AsIs[EmailConfirmed, Directory]()),
		adapter.BindEvent[EmailImportedV1](adapter.Custom[EmailImportedV1, Directory](resolveEmailImport)),
	},
	skipAll[Directory](ChatEventNames()...)...,
)...)

// MessageRegistry adapts every stored event shape for the Message aggregate.
var MessageRegistry = adapter.MustNewRegistry(append(
	[]adapter.Adapter[adapter.NoContext]{
		adapter.BindEvent[MessagePosted](adapter.Initialized(adapter.AsIs[MessagePosted, adapter.NoContext]())),
	},
	skipAll[adapter.NoContext](
		ChatCreatedV1EventName,
		PrivateChatCreatedEventName,
		PublicChatCreatedEventName,
		ChatArchivedEventName,
		EmailAddedAndConfirmedV2EventName,
		EmailAddedEventName,
		EmailConfirmedEventName,
		EmailImportedV1EventName,
	)...,
)...)
