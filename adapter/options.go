package adapter

// MissingAdapterPolicy decides what a Transformer does with raw events that have no adapter.
type MissingAdapterPolicy int

const (
	// FailOnMissingAdapter ends the run with an AdapterNotFoundError. This is the default.
	FailOnMissingAdapter MissingAdapterPolicy = iota

	// SkipMissingAdapter drops the raw event, logs a warning and continues with the next one.
	SkipMissingAdapter
)

func (p MissingAdapterPolicy) String() string {
	switch p {
	case FailOnMissingAdapter:
		return "fail"
	case SkipMissingAdapter:
		return "skip"
	default:
		return "unknown"
	}
}

// settings holds the configuration shared by all Transformer instantiations.
type settings struct {
	missingAdapterPolicy MissingAdapterPolicy
	checkRevisionOrder   bool
	logger               Logger
	contextualLogger     ContextualLogger
	metricsCollector     MetricsCollector
	tracingCollector     TracingCollector
}

// Option defines a functional option for configuring a Transformer.
type Option func(*settings) error

// WithMissingAdapterPolicy sets what happens with raw events that have no adapter.
// Without this option, a missing adapter ends the run with an error.
func WithMissingAdapterPolicy(policy MissingAdapterPolicy) Option {
	return func(s *settings) error {
		if policy != FailOnMissingAdapter && policy != SkipMissingAdapter {
			return ErrInvalidOption
		}

		s.missingAdapterPolicy = policy

		return nil
	}
}

// WithRevisionOrderCheck makes the Transformer log a warning when the revision of an event name
// decreases within one run, which indicates a corrupt or misordered raw event source.
func WithRevisionOrderCheck() Option {
	return func(s *settings) error {
		s.checkRevisionOrder = true
		return nil
	}
}

// WithLogger sets the logger for the Transformer.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: Every adapted event with its strategy (development use)
// Info level: Run summaries with event counts and durations (production-safe)
// Warn level: Skipped events without adapter, decreasing revisions
// Error level: Missing adapters and strategy failures that end a run.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Transformer.
// If both a Logger and a ContextualLogger are set, the ContextualLogger is used.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Transformer.
// It receives run durations, event counts, missing adapters, skipped events, and strategy errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Transformer.
// Every TransformAll run gets one span; its context is handed to the strategies.
func WithTracing(collector TracingCollector) Option {
	return func(s *settings) error {
		s.tracingCollector = collector
		return nil
	}
}
