package cli

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
)

func givenSettings(t *testing.T, values map[string]any) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(keyStorage, storageMemory)
	viper.Set(keyPostgresDriver, driverPGX)
	viper.Set(keyLogLevel, "info")
	viper.Set(keyMetrics, metricsNone)

	for key, value := range values {
		viper.Set(key, value)
	}
}

func Test_LoadSettings_Defaults(t *testing.T) {
	// arrange
	givenSettings(t, nil)

	// act
	s, err := loadSettings()

	// assert
	require.NoError(t, err)
	assert.Equal(t, storageMemory, s.Storage)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, metricsNone, s.Metrics)
	assert.Nil(t, s.EncryptionKey)
}

func Test_LoadSettings_ParsesValues(t *testing.T) {
	// arrange
	key := strings.Repeat("k", 32)
	givenSettings(t, map[string]any{
		keyStorage:        "Postgres",
		keyPostgresDriver: "sqlx",
		keyLogLevel:       "debug",
		keyEncryptionKey:  base64.StdEncoding.EncodeToString([]byte(key)),
		keyRateLimitRPS:   2.5,
		keyMetrics:        metricsPrometheus,
	})

	// act
	s, err := loadSettings()

	// assert
	require.NoError(t, err)
	assert.Equal(t, storagePostgres, s.Storage)
	assert.Equal(t, driverSQLX, s.PostgresDriver)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, []byte(key), s.EncryptionKey)
	assert.InDelta(t, 2.5, s.RateLimitRPS, 0.0001)
	assert.Equal(t, metricsPrometheus, s.Metrics)
}

func Test_LoadSettings_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]any
	}{
		{name: "storage", values: map[string]any{keyStorage: "mongo"}},
		{name: "postgres driver", values: map[string]any{keyPostgresDriver: "odbc"}},
		{name: "metrics", values: map[string]any{keyMetrics: "statsd"}},
		{name: "otel metrics without endpoint", values: map[string]any{keyMetrics: metricsOTel}},
		{name: "log level", values: map[string]any{keyLogLevel: "loud"}},
		{name: "encryption key", values: map[string]any{keyEncryptionKey: "not base64!"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			givenSettings(t, tc.values)

			// act
			_, err := loadSettings()

			// assert
			assert.Error(t, err)
		})
	}
}

func Test_SetupObservability_PrometheusServesMetrics(t *testing.T) {
	// arrange
	s := Settings{Metrics: metricsPrometheus}
	logger := slog.New(slog.DiscardHandler)

	// act
	obs, err := setupObservability(context.Background(), s, logger)
	require.NoError(t, err)
	obs.config.MetricsCollector.IncrementCounter("movielibrary_test_total", map[string]string{"status": "success"})

	rec := httptest.NewRecorder()
	obs.metricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// assert
	assert.Nil(t, obs.config.TracingCollector)
	assert.NotNil(t, obs.config.ContextualLogger)
	assert.Contains(t, rec.Body.String(), `movielibrary_test_total{status="success"} 1`)
	assert.NoError(t, obs.shutdown())
}

func Test_OpenStore_Memory(t *testing.T) {
	// arrange
	s := Settings{Storage: storageMemory}

	// act
	opened, err := openStore(context.Background(), s, app.ObservabilityConfig{})

	// assert
	require.NoError(t, err)
	assert.NotNil(t, opened.store)
	assert.Nil(t, opened.postgres)
	assert.NoError(t, opened.close())
}
