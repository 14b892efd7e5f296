package postgresengine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/event-revisions-go/eventstore"
	"github.com/AntonStoeckl/event-revisions-go/eventstore/postgresengine/internal/adapters"
)

const (
	spanNameStream = "eventstore.stream"

	metricStreamDuration = "eventstore_stream_duration_seconds"
	metricEventsStreamed = "eventstore_events_streamed"
	metricDatabaseErrors = "eventstore_database_errors_total"

	statusSuccess = "success"
	statusError   = "error"
	statusStopped = "stopped"

	errorTypeBuildQuery         = "build_query"
	errorTypeDatabaseQuery      = "database_query"
	errorTypeRowScan            = "row_scan"
	errorTypeBuildStorableEvent = "build_storable_event"
	errorTypeRowIteration       = "row_iteration"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgIterateRowsFailed        = "failed to iterate database rows"
	logMsgSQLExecuted              = "executed sql for: stream"
	logMsgStreamCompleted          = "eventstore operation: stream completed"
	logMsgStreamStopped            = "eventstore operation: stream stopped by consumer"

	logAttrError       = "error"
	logAttrQuery       = "query"
	logAttrEventType   = "event_type"
	logAttrEventCount  = "event_count"
	logAttrDurationMS  = "duration_ms"
	logAttrConsistency = "consistency"

	labelStatus    = "status"
	labelErrorType = "error_type"

	spanAttrTable       = "table"
	spanAttrEventNames  = "event_names"
	spanAttrConsistency = "consistency"
	spanAttrEventCount  = "event_count"
	spanAttrDurationMS  = "duration_ms"
	spanAttrErrorType   = "error_type"
)

// streamRun carries the observability state of one stream.
type streamRun struct {
	reader     *Reader
	ctx        context.Context
	span       SpanContext
	start      time.Time
	eventCount int
}

func (r Reader) startStream(ctx context.Context, filter eventstore.StreamFilter) *streamRun {
	run := &streamRun{
		reader: &r,
		ctx:    ctx,
		start:  time.Now(),
	}

	if r.tracingCollector != nil {
		run.ctx, run.span = r.tracingCollector.StartSpan(ctx, spanNameStream, map[string]string{
			spanAttrTable:       r.eventTableName,
			spanAttrEventNames:  fmt.Sprint(filter.EventNames()),
			spanAttrConsistency: eventstore.GetConsistencyLevel(ctx).String(),
		})
	}

	return run
}

func (run *streamRun) queryExecuted(sqlQuery sqlQueryString, duration time.Duration) {
	run.debug(
		logMsgSQLExecuted,
		logAttrDurationMS, toMilliseconds(duration),
		logAttrQuery, sqlQuery,
		logAttrConsistency, eventstore.GetConsistencyLevel(run.ctx).String(),
	)
}

// closeRows closes database rows and logs a warning if that fails.
func (run *streamRun) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		run.warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (run *streamRun) failed(msg string, errorType string, err error, args ...any) {
	run.logError(msg, err, args...)
	run.incrementErrorCounter(errorType)
	run.recordRunMetrics(statusError)
	run.finishSpan(statusError, map[string]string{spanAttrErrorType: errorType})
}

func (run *streamRun) finishStopped() {
	run.info(logMsgStreamStopped, logAttrEventCount, run.eventCount, logAttrDurationMS, run.durationMS())
	run.recordRunMetrics(statusStopped)
	run.finishSpan(statusStopped, nil)
}

func (run *streamRun) finishSuccess() {
	run.info(logMsgStreamCompleted, logAttrEventCount, run.eventCount, logAttrDurationMS, run.durationMS())
	run.recordRunMetrics(statusSuccess)
	run.finishSpan(statusSuccess, nil)
}

func (run *streamRun) durationMS() float64 {
	return toMilliseconds(time.Since(run.start))
}

// === Tracing ===

func (run *streamRun) finishSpan(status string, additionalAttrs map[string]string) {
	if run.reader.tracingCollector == nil || run.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrEventCount: strconv.Itoa(run.eventCount),
		spanAttrDurationMS: fmt.Sprintf("%.2f", run.durationMS()),
	}

	for key, value := range additionalAttrs {
		attrs[key] = value
	}

	for key, value := range attrs {
		run.span.AddAttribute(key, value)
	}

	run.span.SetStatus(status)
	run.reader.tracingCollector.FinishSpan(run.span, status, attrs)
}

// === Metrics ===

func (run *streamRun) recordRunMetrics(status string) {
	collector := run.reader.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{labelStatus: status}
	duration := time.Since(run.start)

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(run.ctx, metricStreamDuration, duration, labels)
		contextual.RecordValueContext(run.ctx, metricEventsStreamed, float64(run.eventCount), labels)

		return
	}

	collector.RecordDuration(metricStreamDuration, duration, labels)
	collector.RecordValue(metricEventsStreamed, float64(run.eventCount), labels)
}

func (run *streamRun) incrementErrorCounter(errorType string) {
	collector := run.reader.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{labelStatus: statusError, labelErrorType: errorType}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(run.ctx, metricDatabaseErrors, labels)
		return
	}

	collector.IncrementCounter(metricDatabaseErrors, labels)
}

// === Logging ===
// The contextual logger takes precedence over the plain logger.

func (run *streamRun) debug(msg string, args ...any) {
	switch {
	case run.reader.contextualLogger != nil:
		run.reader.contextualLogger.DebugContext(run.ctx, msg, args...)
	case run.reader.logger != nil:
		run.reader.logger.Debug(msg, args...)
	}
}

func (run *streamRun) info(msg string, args ...any) {
	switch {
	case run.reader.contextualLogger != nil:
		run.reader.contextualLogger.InfoContext(run.ctx, msg, args...)
	case run.reader.logger != nil:
		run.reader.logger.Info(msg, args...)
	}
}

func (run *streamRun) warn(msg string, args ...any) {
	switch {
	case run.reader.contextualLogger != nil:
		run.reader.contextualLogger.WarnContext(run.ctx, msg, args...)
	case run.reader.logger != nil:
		run.reader.logger.Warn(msg, args...)
	}
}

func (run *streamRun) logError(msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case run.reader.contextualLogger != nil:
		run.reader.contextualLogger.ErrorContext(run.ctx, msg, allArgs...)
	case run.reader.logger != nil:
		run.reader.logger.Error(msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
