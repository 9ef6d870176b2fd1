package oteladapters

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// MetricsCollector implements recordstore.ContextualMetricsCollector with the OpenTelemetry metrics API.
// Instruments are created lazily per metric name and cached:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Handlers and engines share one collector from many goroutines, so the caches are concurrent maps.
type MetricsCollector struct {
	meter      metric.Meter
	histograms *xsync.MapOf[string, metric.Float64Histogram]
	counters   *xsync.MapOf[string, metric.Int64Counter]
	gauges     *xsync.MapOf[string, metric.Float64Gauge]
}

// NewMetricsCollector creates a collector that registers its instruments on meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: xsync.NewMapOf[string, metric.Float64Histogram](),
		counters:   xsync.NewMapOf[string, metric.Int64Counter](),
		gauges:     xsync.NewMapOf[string, metric.Float64Gauge](),
	}
}

func (m *MetricsCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), name, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	histogram, ok := m.histogram(name)
	if !ok {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) IncrementCounter(name string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), name, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, name string, labels map[string]string) {
	counter, ok := m.counter(name)
	if !ok {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) RecordValue(name string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), name, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, name string, value float64, labels map[string]string) {
	gauge, ok := m.gauge(name)
	if !ok {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

// An instrument that fails to register is not cached, so the next call retries the registration.

func (m *MetricsCollector) histogram(name string) (metric.Float64Histogram, bool) {
	if histogram, ok := m.histograms.Load(name); ok {
		return histogram, true
	}

	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription(describe(name)), metric.WithUnit("s"))
	if err != nil {
		return nil, false
	}

	histogram, _ = m.histograms.LoadOrStore(name, histogram)

	return histogram, true
}

func (m *MetricsCollector) counter(name string) (metric.Int64Counter, bool) {
	if counter, ok := m.counters.Load(name); ok {
		return counter, true
	}

	counter, err := m.meter.Int64Counter(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil, false
	}

	counter, _ = m.counters.LoadOrStore(name, counter)

	return counter, true
}

func (m *MetricsCollector) gauge(name string) (metric.Float64Gauge, bool) {
	if gauge, ok := m.gauges.Load(name); ok {
		return gauge, true
	}

	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription(describe(name)))
	if err != nil {
		return nil, false
	}

	gauge, _ = m.gauges.LoadOrStore(name, gauge)

	return gauge, true
}

func describe(name string) string {
	switch {
	case strings.HasPrefix(name, "recordstore_"):
		return "Record store " + humanize(strings.TrimPrefix(name, "recordstore_"))
	case strings.HasPrefix(name, "commandhandler_"):
		return "Command handler " + humanize(strings.TrimPrefix(name, "commandhandler_"))
	case strings.HasPrefix(name, "queryhandler_"):
		return "Query handler " + humanize(strings.TrimPrefix(name, "queryhandler_"))
	default:
		return humanize(name)
	}
}

func humanize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

var _ recordstore.ContextualMetricsCollector = (*MetricsCollector)(nil)
