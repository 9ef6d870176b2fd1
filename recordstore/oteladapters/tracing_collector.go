package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const attrOutcome = "outcome"

// TracingCollector implements recordstore.TracingCollector with the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a tracing collector that starts its spans on tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span carrying attrs and returns the context that holds it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, recordstore.SpanContext) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return ctx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, sets the status and ends the span. Span contexts from other collectors are ignored.
func (t *TracingCollector) FinishSpan(spanCtx recordstore.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ recordstore.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements recordstore.SpanContext around an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus records status as the outcome attribute and maps it to a span status.
// Business outcomes such as not_found or concurrency_conflict leave the span status unset.
func (s *OTelSpanContext) SetStatus(status string) {
	s.span.SetAttributes(attribute.String(attrOutcome, status))

	switch status {
	case "success", "ok":
		s.span.SetStatus(codes.Ok, "")
	case "error", "failure":
		s.span.SetStatus(codes.Error, "operation failed")
	case "canceled", "cancelled":
		s.span.SetStatus(codes.Error, "operation canceled")
	case "timeout":
		s.span.SetStatus(codes.Error, "operation timed out")
	}
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ recordstore.SpanContext = (*OTelSpanContext)(nil)
