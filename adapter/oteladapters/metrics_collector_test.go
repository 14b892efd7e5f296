package oteladapters_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	. "github.com/AntonStoeckl/event-revisions-go/adapter/oteladapters"
)

func newManualMeter() (*sdkmetric.ManualReader, metric.Meter) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, provider.Meter("test")
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not recorded", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_As_Histogram_In_Seconds(t *testing.T) {
	// setup
	reader, meter := newManualMeter()
	collector := NewMetricsCollector(meter)

	// act
	collector.RecordDuration(
		"eventadapter_transform_duration_seconds",
		150*time.Millisecond,
		map[string]string{"status": "success"},
	)

	// assert
	m := findMetric(t, collect(t, reader), "eventadapter_transform_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_Reuses_The_Instrument(t *testing.T) {
	// setup
	reader, meter := newManualMeter()
	collector := NewMetricsCollector(meter)
	labels := map[string]string{"event_name": "user.unknown", "revision": "1"}

	// act
	collector.IncrementCounter("eventadapter_adapter_missing_total", labels)
	collector.IncrementCounterContext(context.Background(), "eventadapter_adapter_missing_total", labels)
	collector.IncrementCounter("eventadapter_adapter_missing_total", labels)

	// assert
	m := findMetric(t, collect(t, reader), "eventadapter_adapter_missing_total")

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_As_Gauge(t *testing.T) {
	// setup
	reader, meter := newManualMeter()
	collector := NewMetricsCollector(meter)
	labels := map[string]string{"status": "success"}

	// act
	collector.RecordValue("eventadapter_events_out", 4, labels)
	collector.RecordValueContext(context.Background(), "eventadapter_events_out", 7, labels)

	// assert
	m := findMetric(t, collect(t, reader), "eventadapter_events_out")

	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 7.0, gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_Accepts_Nil_Labels(t *testing.T) {
	// setup
	reader, meter := newManualMeter()
	collector := NewMetricsCollector(meter)

	// act
	collector.IncrementCounter("eventadapter_strategy_errors_total", nil)

	// assert
	m := findMetric(t, collect(t, reader), "eventadapter_strategy_errors_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, 0, sum.DataPoints[0].Attributes.Len())
}

func Test_MetricsCollector_Is_Safe_For_Concurrent_Use(t *testing.T) {
	// setup
	reader, meter := newManualMeter()
	collector := NewMetricsCollector(meter)

	// act
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			collector.IncrementCounter("eventadapter_events_skipped_total", map[string]string{"reason": "no_output"})
		}()
	}

	wg.Wait()

	// assert
	m := findMetric(t, collect(t, reader), "eventadapter_events_skipped_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

// failingMeter refuses to create any instrument.
type failingMeter struct {
	metric.Meter
}

var errInstrumentRefused = errors.New("instrument refused")

func (failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errInstrumentRefused
}

func (failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errInstrumentRefused
}

func (failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errInstrumentRefused
}

func Test_MetricsCollector_Ignores_Instruments_The_Meter_Refuses(t *testing.T) {
	// setup
	collector := NewMetricsCollector(failingMeter{})

	// act & assert
	assert.NotPanics(t, func() {
		collector.RecordDuration("d", time.Second, nil)
		collector.IncrementCounter("c", nil)
		collector.RecordValue("v", 1, nil)
	})
}
