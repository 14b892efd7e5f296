package adapter

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

// Kind is the tag of a Strategy variant.
type Kind int

const (
	// KindAsIs passes the event through unchanged.
	KindAsIs Kind = iota + 1

	// KindInto converts the event into exactly one event of a different type.
	KindInto

	// KindSkip drops the event.
	KindSkip

	// KindSplit fans the event out into a non-empty, ordered sequence of events.
	KindSplit

	// KindCustom delegates to caller-supplied logic with access to a context value.
	KindCustom

	// KindInitialized marks all outputs of an inner Strategy as initial events.
	KindInitialized
)

func (k Kind) String() string {
	switch k {
	case KindAsIs:
		return "as_is"
	case KindInto:
		return "into"
	case KindSkip:
		return "skip"
	case KindSplit:
		return "split"
	case KindCustom:
		return "custom"
	case KindInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Strategy describes how one raw event is turned into zero, one or many current events.
//
// The set of variants is closed: AsIs, Into, Skip, Split, Custom, CustomRaw and Initialized.
// C is the type of the context value handed to Custom strategies; all other variants ignore it.
type Strategy[C any] interface {
	Kind() Kind
	Adapt(ctx context.Context, raw event.Raw, c C) (event.Events, error)
	String() string

	validate() error
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// decode returns raw.Value if it already has type E, otherwise it decodes raw.Payload into E.
func decode[E event.Event](raw event.Raw) (E, error) {
	if decoded, ok := raw.Value.(E); ok {
		return decoded, nil
	}

	var decoded E
	if err := jsonAPI.Unmarshal(raw.Payload, &decoded); err != nil {
		return decoded, errors.Join(
			ErrDecodingPayloadFailed,
			fmt.Errorf("%s@%s into %T", raw.Name, raw.Revision, decoded),
			err,
		)
	}

	return decoded, nil
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

type asIs[E event.Event, C any] struct{}

// AsIs returns a Strategy that decodes the raw event into E and returns it unchanged.
func AsIs[E event.Event, C any]() Strategy[C] {
	return asIs[E, C]{}
}

func (asIs[E, C]) Kind() Kind { return KindAsIs }

func (asIs[E, C]) Adapt(_ context.Context, raw event.Raw, _ C) (event.Events, error) {
	decoded, err := decode[E](raw)
	if err != nil {
		return nil, err
	}

	return event.Events{decoded}, nil
}

func (asIs[E, C]) String() string { return "as_is(" + typeName[E]() + ")" }

func (asIs[E, C]) validate() error { return nil }

type into[From event.Event, To event.Event, C any] struct {
	convert func(From) To
}

// Into returns a Strategy that decodes the raw event into From and converts it into exactly one To.
func Into[From event.Event, To event.Event, C any](convert func(From) To) Strategy[C] {
	return into[From, To, C]{convert: convert}
}

func (into[From, To, C]) Kind() Kind { return KindInto }

func (s into[From, To, C]) Adapt(_ context.Context, raw event.Raw, _ C) (event.Events, error) {
	decoded, err := decode[From](raw)
	if err != nil {
		return nil, err
	}

	return event.Events{s.convert(decoded)}, nil
}

func (into[From, To, C]) String() string {
	return "into(" + typeName[From]() + " -> " + typeName[To]() + ")"
}

func (s into[From, To, C]) validate() error {
	if s.convert == nil {
		return errors.New("into strategy without conversion func")
	}

	return nil
}

type skip[C any] struct{}

// Skip returns a Strategy for retired events. It never decodes and always returns no events.
func Skip[C any]() Strategy[C] {
	return skip[C]{}
}

func (skip[C]) Kind() Kind { return KindSkip }

func (skip[C]) Adapt(context.Context, event.Raw, C) (event.Events, error) {
	return event.Events{}, nil
}

func (skip[C]) String() string { return "skip" }

func (skip[C]) validate() error { return nil }

type split[From event.Event, C any] struct {
	split func(From) (event.Events, error)
}

// Split returns a Strategy that decodes the raw event into From and fans it out into the events returned by fn,
// in the order fn returns them.
//
// Errors of fn are returned unchanged. An empty result fails with ErrEmptySplit.
func Split[From event.Event, C any](fn func(From) (event.Events, error)) Strategy[C] {
	return split[From, C]{split: fn}
}

func (split[From, C]) Kind() Kind { return KindSplit }

func (s split[From, C]) Adapt(_ context.Context, raw event.Raw, _ C) (event.Events, error) {
	decoded, err := decode[From](raw)
	if err != nil {
		return nil, err
	}

	events, err := s.split(decoded)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s@%s", ErrEmptySplit, raw.Name, raw.Revision)
	}

	return events, nil
}

func (split[From, C]) String() string { return "split(" + typeName[From]() + ")" }

func (s split[From, C]) validate() error {
	if s.split == nil {
		return errors.New("split strategy without split func")
	}

	return nil
}

// CustomFunc is the caller-supplied logic of a Custom strategy.
type CustomFunc[From any, C any] func(ctx context.Context, from From, c C) (event.Events, error)

type custom[From event.Event, C any] struct {
	fn CustomFunc[From, C]
}

// Custom returns a Strategy that decodes the raw event into From and delegates to fn.
//
// fn may return any number of events, including none. Its errors are returned unchanged.
func Custom[From event.Event, C any](fn CustomFunc[From, C]) Strategy[C] {
	return custom[From, C]{fn: fn}
}

func (custom[From, C]) Kind() Kind { return KindCustom }

func (s custom[From, C]) Adapt(ctx context.Context, raw event.Raw, c C) (event.Events, error) {
	decoded, err := decode[From](raw)
	if err != nil {
		return nil, err
	}

	return s.fn(ctx, decoded, c)
}

func (custom[From, C]) String() string { return "custom(" + typeName[From]() + ")" }

func (s custom[From, C]) validate() error {
	if s.fn == nil {
		return errors.New("custom strategy without func")
	}

	return nil
}

type customRaw[C any] struct {
	fn CustomFunc[event.Raw, C]
}

// CustomRaw is like Custom but hands the undecoded raw event to fn.
// It is meant for payloads that no longer match any Go type.
func CustomRaw[C any](fn CustomFunc[event.Raw, C]) Strategy[C] {
	return customRaw[C]{fn: fn}
}

func (customRaw[C]) Kind() Kind { return KindCustom }

func (s customRaw[C]) Adapt(ctx context.Context, raw event.Raw, c C) (event.Events, error) {
	return s.fn(ctx, raw, c)
}

func (customRaw[C]) String() string { return "custom(raw)" }

func (s customRaw[C]) validate() error {
	if s.fn == nil {
		return errors.New("custom strategy without func")
	}

	return nil
}

type initialized[C any] struct {
	inner Strategy[C]
}

// Initialized returns a Strategy that runs inner and marks every output with event.Initial.
// Outputs that are already marked are kept as they are.
func Initialized[C any](inner Strategy[C]) Strategy[C] {
	return initialized[C]{inner: inner}
}

func (initialized[C]) Kind() Kind { return KindInitialized }

func (s initialized[C]) Adapt(ctx context.Context, raw event.Raw, c C) (event.Events, error) {
	events, err := s.inner.Adapt(ctx, raw, c)
	if err != nil {
		return nil, err
	}

	marked := make(event.Events, 0, len(events))
	for _, ev := range events {
		if event.IsInitial(ev) {
			marked = append(marked, ev)
			continue
		}

		marked = append(marked, event.MarkInitial(ev))
	}

	return marked, nil
}

func (s initialized[C]) String() string {
	if s.inner == nil {
		return "initialized(<nil>)"
	}

	return "initialized(" + s.inner.String() + ")"
}

func (s initialized[C]) validate() error {
	if s.inner == nil {
		return errors.New("initialized strategy without inner strategy")
	}

	return s.inner.validate()
}
