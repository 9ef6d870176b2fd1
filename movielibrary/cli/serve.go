package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/api"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
)

const (
	logMsgServerStarting = "server starting"
	logMsgServerStopping = "server stopping"
	logMsgShutdownFailed = "shutdown failed"

	logAttrListen  = "listen"
	logAttrStorage = "storage"
	logAttrMetrics = "metrics"
	logAttrError   = "error"

	rateLimiterJanitorInterval = time.Minute
	rateLimiterIdleTTL         = 10 * time.Minute
)

// ServeCmd starts the HTTP API.
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the movielibrary HTTP API",
	Long:    `Start the movielibrary HTTP API. Flags can be set via environment variables MOVIELIBRARY_<FLAG> (e.g. MOVIELIBRARY_STORAGE=postgres).`,
	PreRunE: bindFlags,
	RunE:    runServe,
}

func init() {
	flags := ServeCmd.Flags()
	flags.String(keyListen, ":8080", "address the HTTP API listens on")
	flags.Float64(keyRateLimitRPS, 20, "requests per second per client, 0 disables rate limiting")
	flags.Int(keyRateLimitBurst, 40, "burst size per client")
	flags.String(keyEncryptionKey, "", "base64 encoded 32 byte key enabling the encrypted payload envelope")
	flags.String(keyOTLPEndpoint, "", "OTLP/HTTP endpoint (host:port) for traces and metrics")
	flags.String(keyMetrics, metricsPrometheus, "metrics backend (prometheus, otel, none)")
	flags.Int(keyShutdownTimeout, 10, "seconds to wait for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(s.LogLevel)

	obs, err := setupObservability(ctx, s, logger)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := obs.shutdown(); shutdownErr != nil {
			logger.Error(logMsgShutdownFailed, logAttrError, shutdownErr.Error())
		}
	}()

	opened, err := openStore(ctx, s, obs.config)
	if err != nil {
		return err
	}
	defer func() { _ = opened.close() }()

	handlers, err := app.NewHandlerBundle(opened.store, obs.config, nil)
	if err != nil {
		return err
	}

	options := []api.Option{api.WithLogger(logger)}
	if opened.healthCheck != nil {
		options = append(options, api.WithHealthCheck(opened.healthCheck))
	}
	if obs.metricsHandler != nil {
		options = append(options, api.WithMetricsHandler(obs.metricsHandler))
	}
	if s.RateLimitRPS > 0 {
		limiter := api.NewRateLimiter(s.RateLimitRPS, s.RateLimitBurst, nil)
		limiter.StartJanitor(ctx, rateLimiterJanitorInterval, rateLimiterIdleTTL)
		options = append(options, api.WithRateLimiter(limiter))
	}
	if len(s.EncryptionKey) > 0 {
		options = append(options, api.WithEncryptionKey(s.EncryptionKey))
	}

	router, err := api.NewRouter(handlers, options...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              s.Listen,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(logMsgServerStarting, logAttrListen, s.Listen, logAttrStorage, s.Storage, logAttrMetrics, s.Metrics)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info(logMsgServerStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.ShutdownTimeout)*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx) //nolint:contextcheck // the serve context is already canceled here
}
