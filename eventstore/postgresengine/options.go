package postgresengine

import (
	"github.com/AntonStoeckl/event-revisions-go/adapter"
	"github.com/AntonStoeckl/event-revisions-go/eventstore"
)

// The Reader reports through the observability interfaces of the adapter package,
// so one set of collectors serves a Reader and the Transformer consuming its streams.
type (
	Logger                     = adapter.Logger
	ContextualLogger           = adapter.ContextualLogger
	MetricsCollector           = adapter.MetricsCollector
	ContextualMetricsCollector = adapter.ContextualMetricsCollector
	SpanContext                = adapter.SpanContext
	TracingCollector           = adapter.TracingCollector
)

// Option defines a functional option for configuring a Reader.
type Option func(*Reader) error

// WithTableName sets the table name for the Reader.
func WithTableName(tableName string) Option {
	return func(r *Reader) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		r.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Reader.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Streamed event counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that end a stream.
func WithLogger(logger Logger) Option {
	return func(r *Reader) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Reader.
// If both a Logger and a ContextualLogger are set, the ContextualLogger is used.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(r *Reader) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Reader.
// It receives stream durations, streamed event counts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *Reader) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Reader.
// Every stream gets one span, which ends when the rows are exhausted, the consumer stops, or an error occurs.
func WithTracing(collector TracingCollector) Option {
	return func(r *Reader) error {
		r.tracingCollector = collector
		return nil
	}
}
