package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_WritesAllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "entity", "movie", "record_count", 3)
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message","entity":"movie","record_count":3`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
}

func Test_SlogBridgeLogger_DoesNotPanicWithActiveSpan(t *testing.T) {
	// setup
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	logger := oteladapters.NewSlogBridgeLogger("test")

	// act + assert
	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "correlated message", "key", "value")
	})
}

func Test_OTelLogger_EmitsRecordsWithSeverityAndTypedAttributes(t *testing.T) {
	// setup
	recorder := &recordingLogger{Logger: noop.NewLoggerProvider().Logger("test")}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "entity", "rental", "record_count", 2, "duration_ms", 1.5, "cached", true)
	logger.WarnContext(ctx, "warn message", "dangling")
	logger.ErrorContext(ctx, "error message", 42, "ignored")

	// assert
	records := recorder.Records()
	require.Len(t, records, 4)
	assert.Equal(t, log.SeverityDebug, records[0].Severity())
	assert.Equal(t, log.SeverityInfo, records[1].Severity())
	assert.Equal(t, log.SeverityWarn, records[2].Severity())
	assert.Equal(t, log.SeverityError, records[3].Severity())
	assert.Equal(t, "info message", records[1].Body().AsString())

	attrs := map[string]log.Value{}
	records[1].WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})
	assert.Equal(t, "rental", attrs["entity"].AsString())
	assert.Equal(t, int64(2), attrs["record_count"].AsInt64())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.True(t, attrs["cached"].AsBool())

	assert.Zero(t, records[2].AttributesLen())
	assert.Zero(t, records[3].AttributesLen())
}

type recordingLogger struct {
	log.Logger

	mu      sync.Mutex
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record.Clone())
}

func (l *recordingLogger) Records() []log.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]log.Record(nil), l.records...)
}
