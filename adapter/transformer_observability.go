package adapter

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/event-revisions-go/event"
)

const (
	spanNameTransformAll = "eventadapter.transform_all"

	metricTransformDuration = "eventadapter_transform_duration_seconds"
	metricEventsIn          = "eventadapter_events_in"
	metricEventsOut         = "eventadapter_events_out"
	metricAdapterMissing    = "eventadapter_adapter_missing_total"
	metricStrategyErrors    = "eventadapter_strategy_errors_total"
	metricEventsSkipped     = "eventadapter_events_skipped_total"

	statusSuccess = "success"
	statusError   = "error"
	statusStopped = "stopped"

	errorTypeCancelled      = "cancelled"
	errorTypeSource         = "source_failed"
	errorTypeAdapterMissing = "adapter_missing"
	errorTypeStrategy       = "strategy_failed"

	skipReasonNoOutput       = "no_output"
	skipReasonMissingAdapter = "missing_adapter"

	logMsgRunCompleted      = "event transformation completed"
	logMsgRunStopped        = "event transformation stopped by consumer"
	logMsgRunFailed         = "event transformation failed"
	logMsgAdapterMissing    = "no adapter registered for event"
	logMsgAdapterSkipped    = "skipped event without adapter"
	logMsgStrategyFailed    = "strategy failed to adapt event"
	logMsgEventAdapted      = "adapted event"
	logMsgRevisionDecreased = "event revision decreased within stream"

	logAttrError            = "error"
	logAttrErrorType        = "error_type"
	logAttrEventName        = "event_name"
	logAttrRevision         = "revision"
	logAttrPreviousRevision = "previous_revision"
	logAttrSequence         = "sequence"
	logAttrStrategy         = "strategy"
	logAttrOutputCount      = "output_count"
	logAttrEventsIn         = "events_in"
	logAttrEventsOut        = "events_out"
	logAttrDurationMS       = "duration_ms"

	labelStatus     = "status"
	labelEventName  = "event_name"
	labelRevision   = "revision"
	labelStrategy   = "strategy"
	labelReason     = "reason"
	labelMissPolicy = "missing_adapter_policy"

	spanAttrEventsIn   = "events_in"
	spanAttrEventsOut  = "events_out"
	spanAttrDurationMS = "duration_ms"
	spanAttrErrorType  = "error_type"
	spanAttrEventName  = "event_name"
	spanAttrRevision   = "revision"
)

// transformRun carries the observability state of one TransformAll run.
type transformRun struct {
	*settings
	ctx           context.Context
	span          SpanContext
	start         time.Time
	eventsIn      int
	eventsOut     int
	lastRevisions map[event.Name]event.Revision
}

func (s *settings) startRun(ctx context.Context) *transformRun {
	run := &transformRun{
		settings: s,
		ctx:      ctx,
		start:    time.Now(),
	}

	if s.checkRevisionOrder {
		run.lastRevisions = make(map[event.Name]event.Revision)
	}

	if s.tracingCollector != nil {
		run.ctx, run.span = s.tracingCollector.StartSpan(
			ctx,
			spanNameTransformAll,
			map[string]string{labelMissPolicy: s.missingAdapterPolicy.String()},
		)
	}

	return run
}

func (r *transformRun) received(raw event.Raw) {
	r.eventsIn++

	if r.lastRevisions == nil {
		return
	}

	if previous, seen := r.lastRevisions[raw.Name]; seen && raw.Revision < previous {
		r.warn(
			logMsgRevisionDecreased,
			logAttrEventName, raw.Name,
			logAttrRevision, raw.Revision.Uint16(),
			logAttrPreviousRevision, previous.Uint16(),
			logAttrSequence, raw.Sequence,
		)
	}

	r.lastRevisions[raw.Name] = raw.Revision
}

func (r *transformRun) adapted(raw event.Raw, strategy fmt.Stringer, outputCount int) {
	r.debug(
		logMsgEventAdapted,
		logAttrEventName, raw.Name,
		logAttrRevision, raw.Revision.Uint16(),
		logAttrStrategy, strategy.String(),
		logAttrOutputCount, outputCount,
	)

	if outputCount == 0 {
		r.incrementCounter(metricEventsSkipped, map[string]string{
			labelEventName: raw.Name,
			labelRevision:  raw.Revision.String(),
			labelReason:    skipReasonNoOutput,
		})
	}
}

func (r *transformRun) skippedMissingAdapter(raw event.Raw) {
	r.warn(
		logMsgAdapterSkipped,
		logAttrEventName, raw.Name,
		logAttrRevision, raw.Revision.Uint16(),
		logAttrSequence, raw.Sequence,
	)

	labels := map[string]string{labelEventName: raw.Name, labelRevision: raw.Revision.String()}
	r.incrementCounter(metricAdapterMissing, labels)
	r.incrementCounter(metricEventsSkipped, map[string]string{
		labelEventName: raw.Name,
		labelRevision:  raw.Revision.String(),
		labelReason:    skipReasonMissingAdapter,
	})
}

func (r *transformRun) adapterMissing(raw event.Raw, err error) {
	r.logError(
		logMsgAdapterMissing,
		err,
		logAttrEventName, raw.Name,
		logAttrRevision, raw.Revision.Uint16(),
		logAttrSequence, raw.Sequence,
	)

	r.incrementCounter(metricAdapterMissing, map[string]string{
		labelEventName: raw.Name,
		labelRevision:  raw.Revision.String(),
	})

	r.finishSpanError(errorTypeAdapterMissing, map[string]string{
		spanAttrEventName: raw.Name,
		spanAttrRevision:  raw.Revision.String(),
	})
	r.recordRunMetrics(statusError)
}

func (r *transformRun) strategyFailed(raw event.Raw, kind Kind, err error) {
	r.logError(
		logMsgStrategyFailed,
		err,
		logAttrEventName, raw.Name,
		logAttrRevision, raw.Revision.Uint16(),
		logAttrStrategy, kind.String(),
		logAttrSequence, raw.Sequence,
	)

	r.incrementCounter(metricStrategyErrors, map[string]string{
		labelEventName: raw.Name,
		labelRevision:  raw.Revision.String(),
		labelStrategy:  kind.String(),
	})

	r.finishSpanError(errorTypeStrategy, map[string]string{
		spanAttrEventName: raw.Name,
		spanAttrRevision:  raw.Revision.String(),
	})
	r.recordRunMetrics(statusError)
}

func (r *transformRun) finishError(errorType string, err error) {
	r.logError(logMsgRunFailed, err, logAttrErrorType, errorType, logAttrEventsIn, r.eventsIn)
	r.finishSpanError(errorType, nil)
	r.recordRunMetrics(statusError)
}

func (r *transformRun) finishStopped() {
	r.info(logMsgRunStopped, r.summary()...)
	r.finishSpan(statusStopped)
	r.recordRunMetrics(statusStopped)
}

func (r *transformRun) finishSuccess() {
	r.info(logMsgRunCompleted, r.summary()...)
	r.finishSpan(statusSuccess)
	r.recordRunMetrics(statusSuccess)
}

func (r *transformRun) summary() []any {
	return []any{
		logAttrEventsIn, r.eventsIn,
		logAttrEventsOut, r.eventsOut,
		logAttrDurationMS, toMilliseconds(time.Since(r.start)),
	}
}

// === Tracing ===

func (r *transformRun) spanAttrs() map[string]string {
	return map[string]string{
		spanAttrEventsIn:   strconv.Itoa(r.eventsIn),
		spanAttrEventsOut:  strconv.Itoa(r.eventsOut),
		spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(time.Since(r.start))),
	}
}

func (r *transformRun) finishSpan(status string) {
	if r.tracingCollector == nil || r.span == nil {
		return
	}

	attrs := r.spanAttrs()
	for key, value := range attrs {
		r.span.AddAttribute(key, value)
	}

	r.span.SetStatus(status)
	r.tracingCollector.FinishSpan(r.span, status, attrs)
}

func (r *transformRun) finishSpanError(errorType string, additionalAttrs map[string]string) {
	if r.tracingCollector == nil || r.span == nil {
		return
	}

	attrs := r.spanAttrs()
	attrs[spanAttrErrorType] = errorType
	for key, value := range additionalAttrs {
		attrs[key] = value
	}

	for key, value := range attrs {
		r.span.AddAttribute(key, value)
	}

	r.span.SetStatus(statusError)
	r.tracingCollector.FinishSpan(r.span, statusError, attrs)
}

// === Metrics ===

func (r *transformRun) recordRunMetrics(status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelStatus: status}

	if contextual, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(r.ctx, metricTransformDuration, time.Since(r.start), labels)
		contextual.RecordValueContext(r.ctx, metricEventsIn, float64(r.eventsIn), labels)
		contextual.RecordValueContext(r.ctx, metricEventsOut, float64(r.eventsOut), labels)

		return
	}

	r.metricsCollector.RecordDuration(metricTransformDuration, time.Since(r.start), labels)
	r.metricsCollector.RecordValue(metricEventsIn, float64(r.eventsIn), labels)
	r.metricsCollector.RecordValue(metricEventsOut, float64(r.eventsOut), labels)
}

func (r *transformRun) incrementCounter(metric string, labels map[string]string) {
	if r.metricsCollector == nil {
		return
	}

	if contextual, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(r.ctx, metric, labels)
		return
	}

	r.metricsCollector.IncrementCounter(metric, labels)
}

// === Logging ===
// The contextual logger takes precedence over the plain logger.

func (r *transformRun) debug(msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.DebugContext(r.ctx, msg, args...)
	case r.logger != nil:
		r.logger.Debug(msg, args...)
	}
}

func (r *transformRun) info(msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.InfoContext(r.ctx, msg, args...)
	case r.logger != nil:
		r.logger.Info(msg, args...)
	}
}

func (r *transformRun) warn(msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.WarnContext(r.ctx, msg, args...)
	case r.logger != nil:
		r.logger.Warn(msg, args...)
	}
}

func (r *transformRun) logError(msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.ErrorContext(r.ctx, msg, allArgs...)
	case r.logger != nil:
		r.logger.Error(msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
