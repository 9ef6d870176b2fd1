package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore/oteladapters"
)

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "recordstore.movie.update", map[string]string{
		"engine":    "postgres",
		"operation": "update",
	})
	spanCtx.AddAttribute("record_id", "0191b9a4-6a7e-7c40-8f53-1a7e0d5b9f11")
	collector.FinishSpan(spanCtx, "success", map[string]string{"duration_ms": "1.25"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "recordstore.movie.update", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)
	assertSpanHasAttribute(t, span, "engine", "postgres")
	assertSpanHasAttribute(t, span, "operation", "update")
	assertSpanHasAttribute(t, span, "record_id", "0191b9a4-6a7e-7c40-8f53-1a7e0d5b9f11")
	assertSpanHasAttribute(t, span, "duration_ms", "1.25")
	assertSpanHasAttribute(t, span, "outcome", "success")
}

func Test_TracingCollector_FinishSpan_MapsStatus(t *testing.T) {
	testCases := []struct {
		status string
		code   codes.Code
	}{
		{"success", codes.Ok},
		{"error", codes.Error},
		{"canceled", codes.Error},
		{"timeout", codes.Error},
		{"not_found", codes.Unset},
		{"concurrency_conflict", codes.Unset},
		{"validation_failed", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// setup
			collector, exporter := givenTracingCollector()
			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)

			// act
			collector.FinishSpan(spanCtx, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.code, spans[0].Status.Code)
			assertSpanHasAttribute(t, spans[0], "outcome", tc.status)
		})
	}
}

func Test_TracingCollector_NestsChildSpans(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "ReturnRental", nil)
	_, child := collector.StartSpan(ctx, "recordstore.rental.update", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContext(t *testing.T) {
	// setup
	collector, exporter := givenTracingCollector()

	// act + assert
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "success", nil)
		collector.FinishSpan(nil, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, value, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	t.Errorf("span %s has no attribute %s", span.Name, key)
}
