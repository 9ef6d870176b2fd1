package helper

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricKind tells which collector method produced a SpyMetricRecord.
type MetricKind string

const (
	MetricKindDuration MetricKind = "duration"
	MetricKindCounter  MetricKind = "counter"
	MetricKindValue    MetricKind = "value"
)

// SpyMetricRecord is one captured metrics call.
type SpyMetricRecord struct {
	Kind       MetricKind
	Metric     string
	Duration   time.Duration
	Value      float64
	Labels     map[string]string
	Contextual bool
}

// MetricsCollectorSpy captures metrics calls for assertions.
// It satisfies recordstore.MetricsCollector and, with contextual set, recordstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu          sync.Mutex
	records     []SpyMetricRecord
	recordCalls bool
}

// NewMetricsCollectorSpy creates a MetricsCollectorSpy. With recordCalls false it captures nothing.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

// ContextualMetricsCollectorSpy is a MetricsCollectorSpy that also offers the context-aware methods.
type ContextualMetricsCollectorSpy struct {
	*MetricsCollectorSpy
}

// NewContextualMetricsCollectorSpy creates a ContextualMetricsCollectorSpy.
func NewContextualMetricsCollectorSpy(recordCalls bool) *ContextualMetricsCollectorSpy {
	return &ContextualMetricsCollectorSpy{MetricsCollectorSpy: NewMetricsCollectorSpy(recordCalls)}
}

func (s *MetricsCollectorSpy) record(r SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	r.Labels = maps.Clone(r.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
}

// RecordDuration implements recordstore.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements recordstore.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels})
}

// RecordValue implements recordstore.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext implements recordstore.ContextualMetricsCollector.
func (s *ContextualMetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels, Contextual: true})
}

// IncrementCounterContext implements recordstore.ContextualMetricsCollector.
func (s *ContextualMetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels, Contextual: true})
}

// RecordValueContext implements recordstore.ContextualMetricsCollector.
func (s *ContextualMetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels, Contextual: true})
}

// GetRecords returns a copy of all captured calls.
func (s *MetricsCollectorSpy) GetRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyMetricRecord, len(s.records))
	copy(records, s.records)

	return records
}

// Reset forgets all captured calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

func (s *MetricsCollectorSpy) recordsOf(kind MetricKind, metric string) []SpyMetricRecord {
	matching := make([]SpyMetricRecord, 0)

	for _, record := range s.GetRecords() {
		if record.Kind == kind && record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return matching
}

// CountDurationRecordsForMetric counts the captured duration calls for a metric.
func (s *MetricsCollectorSpy) CountDurationRecordsForMetric(metric string) int {
	return len(s.recordsOf(MetricKindDuration, metric))
}

// CountCounterRecordsForMetric counts the captured counter calls for a metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return len(s.recordsOf(MetricKindCounter, metric))
}

// CountValueRecordsForMetric counts the captured value calls for a metric.
func (s *MetricsCollectorSpy) CountValueRecordsForMetric(metric string) int {
	return len(s.recordsOf(MetricKindValue, metric))
}

// HasDurationRecordForMetric starts a fluent check for a duration call.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsOf(MetricKindDuration, metric)}
}

// HasCounterRecordForMetric starts a fluent check for a counter call.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsOf(MetricKindCounter, metric)}
}

// HasValueRecordForMetric starts a fluent check for a value call.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsOf(MetricKindValue, metric)}
}

// MetricRecordMatcher narrows down metric call candidates.
// The check passes if any call satisfies every condition of the chain.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// WithLabel requires the call to carry the given label.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := make([]SpyMetricRecord, 0, len(m.candidates))

	for _, record := range m.candidates {
		if hasEntry(record.Labels, key, value) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// WithOperation requires the "operation" label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithStatus requires the "status" label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithErrorType requires the "error_type" label.
func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// WithEntity requires the "entity" label.
func (m *MetricRecordMatcher) WithEntity(entity string) *MetricRecordMatcher {
	return m.WithLabel("entity", entity)
}

// WithContext requires the call to have gone through a context-aware method.
func (m *MetricRecordMatcher) WithContext() *MetricRecordMatcher {
	kept := make([]SpyMetricRecord, 0, len(m.candidates))

	for _, record := range m.candidates {
		if record.Contextual {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// Assert reports whether any call satisfied the whole chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
