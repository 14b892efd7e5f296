package adapter

import (
	"context"
	"iter"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

// Transformer applies the adapters of a Registry to raw event streams.
//
// A Transformer holds no state besides its Registry and configuration, so one instance can serve any number
// of concurrent runs. Each run is synchronous and strictly ordered.
type Transformer[C any] struct {
	registry *Registry[C]
	settings
}

// NewTransformer creates a Transformer for registry with optional configuration.
func NewTransformer[C any](registry *Registry[C], options ...Option) (*Transformer[C], error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	t := &Transformer[C]{registry: registry}

	for _, option := range options {
		if err := option(&t.settings); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Registry returns the Registry of the Transformer.
func (t *Transformer[C]) Registry() *Registry[C] {
	return t.registry
}

// Transform adapts a single raw event.
//
// Unlike TransformAll, it always fails with an AdapterNotFoundError for unknown events,
// regardless of the MissingAdapterPolicy.
func (t *Transformer[C]) Transform(ctx context.Context, raw event.Raw, c C) (event.Events, error) {
	strategy, err := t.registry.Lookup(raw.Name, raw.Revision)
	if err != nil {
		return nil, err
	}

	return strategy.Adapt(ctx, raw, c)
}

// TransformAll returns a lazy sequence of the current events for the given raw event stream.
//
// Nothing is read from raws before the first value is pulled. For every raw event, in order, the bound
// Strategy is applied and its outputs are yielded in their order before the next raw event is read.
//
// The sequence ends after yielding the first error, which is one of:
//   - an error yielded by raws, unchanged
//   - an AdapterNotFoundError (unless SkipMissingAdapter is configured)
//   - the error of a Strategy, unchanged
//   - ctx.Err(), checked before the first and after each raw event
//
// When the consumer stops pulling, raws is not read any further.
func (t *Transformer[C]) TransformAll(
	ctx context.Context,
	raws iter.Seq2[event.Raw, error],
	c C,
) iter.Seq2[event.Event, error] {

	return func(yield func(event.Event, error) bool) {
		run := t.startRun(ctx)

		if err := ctx.Err(); err != nil {
			run.finishError(errorTypeCancelled, err)
			yield(nil, err)

			return
		}

		for raw, sourceErr := range raws {
			if sourceErr != nil {
				run.finishError(errorTypeSource, sourceErr)
				yield(nil, sourceErr)

				return
			}

			events, adaptErr := t.adapt(run, raw, c)
			if adaptErr != nil {
				yield(nil, adaptErr)
				return
			}

			for _, ev := range events {
				run.eventsOut++

				if !yield(ev, nil) {
					run.finishStopped()
					return
				}
			}

			if err := ctx.Err(); err != nil {
				run.finishError(errorTypeCancelled, err)
				yield(nil, err)

				return
			}
		}

		run.finishSuccess()
	}
}

// adapt looks up and runs the Strategy for one raw event within a run.
// A nil result without error means the raw event was dropped.
func (t *Transformer[C]) adapt(run *transformRun, raw event.Raw, c C) (event.Events, error) {
	run.received(raw)

	strategy, err := t.registry.Lookup(raw.Name, raw.Revision)
	if err != nil {
		if t.missingAdapterPolicy == SkipMissingAdapter {
			run.skippedMissingAdapter(raw)
			return nil, nil
		}

		run.adapterMissing(raw, err)

		return nil, err
	}

	events, err := strategy.Adapt(run.ctx, raw, c)
	if err != nil {
		run.strategyFailed(raw, strategy.Kind(), err)
		return nil, err
	}

	run.adapted(raw, strategy, len(events))

	return events, nil
}

// Collect drains seq into a slice.
//
// On error, it returns the events yielded before the error together with the error.
func Collect(seq iter.Seq2[event.Event, error]) (event.Events, error) {
	events := make(event.Events, 0)

	for ev, err := range seq {
		if err != nil {
			return events, err
		}

		events = append(events, ev)
	}

	return events, nil
}
