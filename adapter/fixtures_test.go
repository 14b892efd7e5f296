package adapter_test

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/event"
)

// directory is the context value handed to custom strategies in these tests.
type directory map[string]string

type userRegisteredV1 struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (userRegisteredV1) EventName() event.Name         { return "user.registered" }
func (userRegisteredV1) EventRevision() event.Revision { return 1 }

type userRegistered struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (userRegistered) EventName() event.Name         { return "user.registered" }
func (userRegistered) EventRevision() event.Revision { return 2 }

type userRenamed struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (userRenamed) EventName() event.Name         { return "user.renamed" }
func (userRenamed) EventRevision() event.Revision { return 1 }

type userDeactivated struct {
	UserID string `json:"user_id"`
}

func (userDeactivated) EventName() event.Name         { return "user.deactivated" }
func (userDeactivated) EventRevision() event.Revision { return 1 }

type userRetiredFlagSet struct {
	UserID string `json:"user_id"`
}

func (userRetiredFlagSet) EventName() event.Name         { return "user.retired_flag_set" }
func (userRetiredFlagSet) EventRevision() event.Revision { return 1 }

// userRenamedAndDeactivated was recorded by an old version and is split into two events today.
type userRenamedAndDeactivated struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (userRenamedAndDeactivated) EventName() event.Name         { return "user.renamed_and_deactivated" }
func (userRenamedAndDeactivated) EventRevision() event.Revision { return 1 }

// userImported only carries an external reference that is resolved with the directory.
type userImported struct {
	UserID      string `json:"user_id"`
	ExternalRef string `json:"external_ref"`
}

func (userImported) EventName() event.Name         { return "user.imported" }
func (userImported) EventRevision() event.Revision { return 1 }

var errUnknownExternalRef = errors.New("unknown external reference")

func upgradeUserRegistered(v1 userRegisteredV1) userRegistered {
	first, last, _ := strings.Cut(v1.Name, " ")

	return userRegistered{UserID: v1.UserID, FirstName: first, LastName: last}
}

func splitUserRenamedAndDeactivated(ev userRenamedAndDeactivated) (event.Events, error) {
	return event.Events{
		userRenamed{UserID: ev.UserID, Name: ev.Name},
		userDeactivated{UserID: ev.UserID},
	}, nil
}

func resolveUserImported(_ context.Context, ev userImported, dir directory) (event.Events, error) {
	name, found := dir[ev.ExternalRef]
	if !found {
		return nil, errUnknownExternalRef
	}

	return event.Events{upgradeUserRegistered(userRegisteredV1{UserID: ev.UserID, Name: name})}, nil
}

func userAdapters() []Adapter[directory] {
	return []Adapter[directory]{
		BindEvent[userRegisteredV1](Initialized(Into[userRegisteredV1, userRegistered, directory](upgradeUserRegistered))),
		BindEvent[userRegistered](Initialized(AsIs[userRegistered, directory]())),
		BindEvent[userRenamed](AsIs[userRenamed, directory]()),
		BindEvent[userDeactivated](AsIs[userDeactivated, directory]()),
		BindEvent[userRetiredFlagSet](Skip[directory]()),
		BindEvent[userRenamedAndDeactivated](Split[userRenamedAndDeactivated, directory](splitUserRenamedAndDeactivated)),
		BindEvent[userImported](Initialized(Custom[userImported](resolveUserImported))),
	}
}

func userRegistry(t *testing.T) *Registry[directory] {
	t.Helper()

	registry, err := NewRegistry(userAdapters()...)
	require.NoError(t, err)

	return registry
}

func userTransformer(t *testing.T, options ...Option) *Transformer[directory] {
	t.Helper()

	transformer, err := NewTransformer(userRegistry(t), options...)
	require.NoError(t, err)

	return transformer
}

// rawOf encodes ev into a raw event record without keeping the decoded value,
// like a record read from storage.
func rawOf(t *testing.T, ev event.Event) event.Raw {
	t.Helper()

	raw, err := event.RawFrom(ev)
	require.NoError(t, err)

	raw.Value = nil

	return raw
}

func rawsOf(t *testing.T, events ...event.Event) event.Raws {
	t.Helper()

	raws := make(event.Raws, 0, len(events))
	for i, ev := range events {
		raws = append(raws, rawOf(t, ev).WithSequence(uint64(i+1)))
	}

	return raws
}

// countingSource is a raw event source that counts how many records were pulled.
type countingSource struct {
	raws   event.Raws
	pulled int
	err    error
	errAt  int
}

func (s *countingSource) seq() iter.Seq2[event.Raw, error] {
	return func(yield func(event.Raw, error) bool) {
		for i, raw := range s.raws {
			s.pulled++

			if s.err != nil && i == s.errAt {
				yield(event.Raw{}, s.err)
				return
			}

			if !yield(raw, nil) {
				return
			}
		}
	}
}
