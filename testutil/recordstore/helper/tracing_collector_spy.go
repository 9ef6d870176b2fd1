package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

// SetStatus implements recordstore.SpanContext.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements recordstore.SpanContext.
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

// Attributes returns a copy of the attributes added while the span was open.
func (c *SpySpanContext) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpySpanRecord is one captured span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	Span            *SpySpanContext
}

// TracingCollectorSpy captures spans for assertions. It satisfies recordstore.TracingCollector
// and the handler wrappers' tracing seam.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	records     []*SpySpanRecord
	recordCalls bool
}

// NewTracingCollectorSpy creates a TracingCollectorSpy. With recordCalls false it hands out no spans.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

// StartSpan implements recordstore.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, recordstore.SpanContext) {
	if !s.recordCalls {
		return ctx, nil
	}

	span := &SpySpanContext{attributes: make(map[string]string)}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, &SpySpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		Span:            span,
	})

	return ctx, span
}

// FinishSpan implements recordstore.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx recordstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !s.recordCalls || !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Span == span {
			record.Status = status
			record.EndAttributes = maps.Clone(attrs)
			record.Finished = true

			return
		}
	}
}

// GetSpanRecords returns a copy of all captured spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, *record)
	}

	return records
}

// CountSpanRecordsForName counts the captured spans with the given name.
func (s *TracingCollectorSpy) CountSpanRecordsForName(name string) int {
	count := 0

	for _, record := range s.GetSpanRecords() {
		if record.Name == name {
			count++
		}
	}

	return count
}

// Reset forgets all captured spans.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// HasSpanRecordForName starts a fluent check for a finished span with the given name.
// The check passes if any span with that name satisfies every condition of the chain.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	candidates := make([]SpySpanRecord, 0)

	for _, record := range s.GetSpanRecords() {
		if record.Name == name && record.Finished {
			candidates = append(candidates, record)
		}
	}

	return &SpanRecordMatcher{candidates: candidates}
}

// SpanRecordMatcher narrows down span candidates.
type SpanRecordMatcher struct {
	candidates []SpySpanRecord
}

func (m *SpanRecordMatcher) keep(predicate func(SpySpanRecord) bool) *SpanRecordMatcher {
	kept := make([]SpySpanRecord, 0, len(m.candidates))

	for _, record := range m.candidates {
		if predicate(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// WithStatus requires the span to have finished with the given status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.keep(func(r SpySpanRecord) bool { return r.Status == status })
}

// WithStartAttribute requires the span to have been started with the given attribute.
func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.keep(func(r SpySpanRecord) bool { return hasEntry(r.StartAttributes, key, value) })
}

// WithEndAttribute requires the span to have been finished with the given attribute.
func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.keep(func(r SpySpanRecord) bool { return hasEntry(r.EndAttributes, key, value) })
}

// WithSpanAttribute requires the given attribute to have been added while the span was open.
func (m *SpanRecordMatcher) WithSpanAttribute(key, value string) *SpanRecordMatcher {
	return m.keep(func(r SpySpanRecord) bool { return hasEntry(r.Span.Attributes(), key, value) })
}

// Assert reports whether any span satisfied the whole chain.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func hasEntry(m map[string]string, key, value string) bool {
	v, ok := m[key]
	return ok && v == value
}
