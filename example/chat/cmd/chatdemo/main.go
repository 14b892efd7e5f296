// Command chatdemo folds a stored chat stream with legacy event revisions into its current aggregates.
//
// Without CHATDEMO_POSTGRES_DSN it uses a built-in in-memory stream.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/event"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/event-revisions-go/example/chat"
)

type config struct {
	PostgresDSN string        `env:"CHATDEMO_POSTGRES_DSN"`
	TableName   string        `env:"CHATDEMO_TABLE_NAME"   envDefault:"events"`
	Timeout     time.Duration `env:"CHATDEMO_TIMEOUT"      envDefault:"10s"`
	Debug       bool          `env:"CHATDEMO_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	source, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	directory := chat.NewMapDirectory(map[string]chat.DirectoryEntry{
		"crm-42": {Email: "imported@example.com", ConfirmedBy: "crm"},
	})

	repository, err := chat.NewRepository(source, directory, adapter.WithLogger(logger), adapter.WithRevisionOrderCheck())
	if err != nil {
		return err
	}

	chatState, chatExists, err := repository.Chat(ctx)
	if err != nil {
		return fmt.Errorf("load chat: %w", err)
	}

	emailState, emailExists, err := repository.Email(ctx)
	if err != nil {
		return fmt.Errorf("load email: %w", err)
	}

	messageState, messageExists, err := repository.Message(ctx)
	if err != nil {
		return fmt.Errorf("load message: %w", err)
	}

	logger.Info("chat loaded", "exists", chatExists, "visibility", chatState.Visibility, "messages", chatState.MessageCount)
	logger.Info("email loaded", "exists", emailExists, "email", emailState.Value, "confirmed", emailState.IsConfirmed())
	logger.Info("message loaded", "exists", messageExists, "text", messageState.Text)

	return nil
}

func newSource(ctx context.Context, cfg config, logger *slog.Logger) (chat.RawSource, func(), error) {
	if cfg.PostgresDSN == "" {
		source, err := demoSource()
		return source, func() {}, err
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	reader, err := postgresengine.NewReaderFromPGXPool(
		pool,
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(logger),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	return reader, pool.Close, nil
}

// demoSource is a stream written by three generations of the application.
func demoSource() (*chat.MemorySource, error) {
	chatID := uuid.New()
	confirmedBy := "admin"
	now := time.Now().UTC()

	events := []event.Event{
		chat.ChatCreatedV1{ChatID: chatID},
		chat.MessagePosted{ChatID: chatID, MessageID: uuid.New(), Text: "hello"},
		chat.ChatArchived{ChatID: chatID},
		chat.EmailAddedAndConfirmedV2{Email: "ada@example.com", ConfirmedBy: &confirmedBy},
		chat.MessagePosted{ChatID: chatID, MessageID: uuid.New(), Text: "still here"},
	}

	storables := make(eventstore.StorableEvents, 0, len(events))
	for i, ev := range events {
		storable, err := eventstore.StorableEventFrom(ev, now.Add(time.Duration(i)*time.Second))
		if err != nil {
			return nil, err
		}

		storables = append(storables, storable)
	}

	return chat.NewMemorySource(storables...), nil
}
