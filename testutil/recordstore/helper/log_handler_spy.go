package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures log records for testing.
type LogHandlerSpy struct {
	mu          *sync.Mutex
	records     *[]slog.Record
	attrs       []slog.Attr
	logToStdout bool
}

// NewLogHandlerSpy creates a LogHandlerSpy.
// Switchable to log to stdout, which helps when debugging a test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		mu:          &sync.Mutex{},
		records:     &[]slog.Record{},
		logToStdout: logToStdout,
	}
}

// Handle implements slog.Handler.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()
	record.AddAttrs(s.attrs...)

	s.mu.Lock()
	*s.records = append(*s.records, record)
	s.mu.Unlock()

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler. Every level is captured.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler. The derived handler shares the captured records.
func (s *LogHandlerSpy) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *s
	derived.attrs = append(append([]slog.Attr{}, s.attrs...), attrs...)

	return &derived
}

// WithGroup implements slog.Handler. Groups are ignored.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecords returns a copy of all captured records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]slog.Record, len(*s.records))
	copy(records, *s.records)

	return records
}

// Reset forgets all captured records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	*s.records = nil
}

// HasDebugLogWithMessage starts a fluent check for a debug record.
func (s *LogHandlerSpy) HasDebugLogWithMessage(message string) *LogRecordMatcher {
	return s.hasLog(slog.LevelDebug, message)
}

// HasInfoLogWithMessage starts a fluent check for an info record.
func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *LogRecordMatcher {
	return s.hasLog(slog.LevelInfo, message)
}

// HasWarnLogWithMessage starts a fluent check for a warn record.
func (s *LogHandlerSpy) HasWarnLogWithMessage(message string) *LogRecordMatcher {
	return s.hasLog(slog.LevelWarn, message)
}

// HasErrorLogWithMessage starts a fluent check for an error record.
func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *LogRecordMatcher {
	return s.hasLog(slog.LevelError, message)
}

func (s *LogHandlerSpy) hasLog(level slog.Level, message string) *LogRecordMatcher {
	candidates := make([]slog.Record, 0)

	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message {
			candidates = append(candidates, record)
		}
	}

	return &LogRecordMatcher{candidates: candidates}
}

// LogRecordMatcher narrows down log record candidates.
type LogRecordMatcher struct {
	candidates []slog.Record
}

func (m *LogRecordMatcher) keep(predicate func(slog.Attr) bool) *LogRecordMatcher {
	kept := make([]slog.Record, 0, len(m.candidates))

	for _, record := range m.candidates {
		matched := false
		record.Attrs(func(attr slog.Attr) bool {
			matched = predicate(attr)
			return !matched
		})

		if matched {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// WithDurationMS requires a non-negative duration_ms attribute.
func (m *LogRecordMatcher) WithDurationMS() *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		if attr.Key != "duration_ms" {
			return false
		}

		switch attr.Value.Kind() {
		case slog.KindFloat64:
			return attr.Value.Float64() >= 0
		case slog.KindInt64:
			return attr.Value.Int64() >= 0
		default:
			return false
		}
	})
}

// WithAttribute requires an attribute whose value renders as the given string.
func (m *LogRecordMatcher) WithAttribute(key, value string) *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key && attr.Value.String() == value
	})
}

// WithAttributeKey requires an attribute with the given key.
func (m *LogRecordMatcher) WithAttributeKey(key string) *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key
	})
}

// Assert reports whether any record satisfied the whole chain.
func (m *LogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
