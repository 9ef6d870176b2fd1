package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/config"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/oteladapters"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/vmadapters"
)

const instrumentationName = "github.com/afarhat-dev/vertical-slice-poc/movielibrary"

// observability is what setupObservability hands to the store, the handlers and the router.
type observability struct {
	config         app.ObservabilityConfig
	metricsHandler http.Handler
	shutdown       func() error
}

func setupObservability(ctx context.Context, s Settings, logger *slog.Logger) (observability, error) {
	obs := observability{
		config:   app.ObservabilityConfig{ContextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())},
		shutdown: func() error { return nil },
	}

	var providers *config.ObservabilityProviders
	if s.OTLPEndpoint != "" {
		var err error
		providers, err = config.NewObservabilityProviders(ctx, s.OTLPEndpoint, Version)
		if err != nil {
			return observability{}, fmt.Errorf("failed to set up OpenTelemetry: %w", err)
		}

		obs.shutdown = providers.Shutdown
		obs.config.TracingCollector = oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(instrumentationName))
	}

	switch s.Metrics {
	case metricsPrometheus:
		collector := vmadapters.NewMetricsCollector()
		obs.config.MetricsCollector = collector
		obs.metricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; version=0.0.4")
			collector.WritePrometheus(w, true)
		})
	case metricsOTel:
		obs.config.MetricsCollector = oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))
	}

	return obs, nil
}
