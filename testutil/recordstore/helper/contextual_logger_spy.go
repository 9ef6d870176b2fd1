package helper

import (
	"context"
	"slices"
	"sync"
)

// SpyContextualLogRecord is one captured contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged for key, nil if there is none.
func (r SpyContextualLogRecord) Attr(key string) any {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1]
		}
	}

	return nil
}

// ContextualLoggerSpy captures the calls of a recordstore.ContextualLogger.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	records     []SpyContextualLogRecord
	recordCalls bool
}

// NewContextualLoggerSpy creates a ContextualLoggerSpy. With recordCalls false it captures nothing.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) log(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    slices.Clone(args),
		Context: ctx,
	})
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.log(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.log(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.log(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.log(ctx, "error", msg, args)
}

// GetRecords returns the captured calls of one level.
func (s *ContextualLoggerSpy) GetRecords(level string) []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyContextualLogRecord, 0)
	for _, record := range s.records {
		if record.Level == level {
			records = append(records, record)
		}
	}

	return records
}

func (s *ContextualLoggerSpy) GetDebugRecords() []SpyContextualLogRecord { return s.GetRecords("debug") }
func (s *ContextualLoggerSpy) GetInfoRecords() []SpyContextualLogRecord  { return s.GetRecords("info") }
func (s *ContextualLoggerSpy) GetWarnRecords() []SpyContextualLogRecord  { return s.GetRecords("warn") }
func (s *ContextualLoggerSpy) GetErrorRecords() []SpyContextualLogRecord { return s.GetRecords("error") }

// HasLog reports whether a call with the given level and message was captured.
func (s *ContextualLoggerSpy) HasLog(level, message string) bool {
	return slices.ContainsFunc(s.GetRecords(level), func(r SpyContextualLogRecord) bool {
		return r.Message == message
	})
}

func (s *ContextualLoggerSpy) HasDebugLog(message string) bool { return s.HasLog("debug", message) }
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool  { return s.HasLog("info", message) }
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool { return s.HasLog("error", message) }

// Reset forgets all captured calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}
