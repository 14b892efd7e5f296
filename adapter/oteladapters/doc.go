// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// shared by adapter.Transformer and the postgresengine.Reader.
//
//	tracer := otel.Tracer("event-revisions")
//	meter := otel.Meter("event-revisions")
//
//	transformer, err := adapter.NewTransformer(registry,
//		adapter.WithContextualLogger(oteladapters.NewSlogBridgeLogger("event-revisions")),
//		adapter.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		adapter.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
//
// Strategies receive the context of the run span, so spans they start become its children.
package oteladapters
