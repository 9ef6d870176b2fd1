// Package oteladapters connects the recordstore observability interfaces to OpenTelemetry.
//
// Each adapter takes an instrument source from the caller (a slog handler, a log.Logger,
// a metric.Meter or a trace.Tracer), so the application keeps control over providers and exporters:
//
//	tracer := otel.GetTracerProvider().Tracer("movielibrary")
//	meter := otel.GetMeterProvider().Meter("movielibrary")
//
//	store, err := postgresengine.NewRecordStoreFromPGXPool(pool,
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("movielibrary")),
//	)
package oteladapters
