package oteladapters_test

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
)

type emittedRecord struct {
	ctx    context.Context
	record log.Record
}

func (e emittedRecord) attr(key string) (log.Value, bool) {
	var found log.Value
	ok := false

	e.record.WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == key {
			found, ok = kv.Value, true
			return false
		}

		return true
	})

	return found, ok
}

// recordingLogger is an OpenTelemetry log.Logger that keeps every emitted record.
type recordingLogger struct {
	noop.Logger
	records []emittedRecord
	mu      sync.Mutex
}

func (l *recordingLogger) Emit(ctx context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, emittedRecord{ctx: ctx, record: record.Clone()})
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func (l *recordingLogger) emitted() []emittedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]emittedRecord(nil), l.records...)
}

// recordingProvider hands out one shared recordingLogger.
type recordingProvider struct {
	noop.LoggerProvider
	logger *recordingLogger
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{logger: &recordingLogger{}}
}

func (p *recordingProvider) Logger(string, ...log.LoggerOption) log.Logger {
	return p.logger
}
