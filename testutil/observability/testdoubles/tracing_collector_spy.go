package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/event-revisions-go/adapter"
)

type spySpanKey struct{}

// SpySpanContext is the SpanContext handed out by TracingCollectorSpy.
type SpySpanContext struct {
	name       string
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements the SpanContext interface.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements the SpanContext interface.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// Status returns the status set on the span.
func (c *SpySpanContext) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Attributes returns a copy of the attributes added to the span.
func (c *SpySpanContext) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpanFromContext returns the SpySpanContext stored in ctx by TracingCollectorSpy.StartSpan.
func SpanFromContext(ctx context.Context) (*SpySpanContext, bool) {
	span, ok := ctx.Value(spySpanKey{}).(*SpySpanContext)
	return span, ok
}

// SpySpanRecord represents one span started and possibly finished through TracingCollectorSpy.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Finished        bool
	Status          string
	EndAttributes   map[string]string
	SpanContext     *SpySpanContext
}

// TracingCollectorSpy is a TracingCollector that captures started and finished spans.
// The returned context carries the span, so nested work can be correlated with SpanFromContext.
type TracingCollectorSpy struct {
	records []SpySpanRecord
	mu      sync.Mutex
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{records: make([]SpySpanRecord, 0)}
}

func (s *TracingCollectorSpy) startSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, *SpySpanContext) {

	s.mu.Lock()
	defer s.mu.Unlock()

	span := &SpySpanContext{name: name, attributes: make(map[string]string)}

	s.records = append(s.records, SpySpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		SpanContext:     span,
	})

	return context.WithValue(ctx, spySpanKey{}, span), span
}

func (s *TracingCollectorSpy) finishSpan(spanCtx any, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok || span == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].SpanContext == span {
			s.records[i].Finished = true
			s.records[i].Status = status
			s.records[i].EndAttributes = maps.Clone(attrs)

			return
		}
	}
}

// Records returns a copy of all captured span records.
func (s *TracingCollectorSpy) Records() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, len(s.records))
	copy(records, s.records)

	return records
}

// Find returns the first span record with the given name.
func (s *TracingCollectorSpy) Find(name string) (SpySpanRecord, bool) {
	for _, record := range s.Records() {
		if record.Name == name {
			return record, true
		}
	}

	return SpySpanRecord{}, false
}

// Reset clears all captured span records.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// StartSpan implements the TracingCollector interface.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, adapter.SpanContext) {

	return s.startSpan(ctx, name, attrs)
}

// FinishSpan implements the TracingCollector interface.
func (s *TracingCollectorSpy) FinishSpan(spanCtx adapter.SpanContext, status string, attrs map[string]string) {
	s.finishSpan(spanCtx, status, attrs)
}

var _ adapter.TracingCollector = (*TracingCollectorSpy)(nil)
