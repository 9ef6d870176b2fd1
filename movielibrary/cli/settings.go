package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/api"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/config"
)

const envPrefix = "movielibrary"

const (
	keyStorage            = "storage"
	keyPostgresDriver     = "postgres-driver"
	keyPostgresDSN        = "postgres-dsn"
	keyPostgresReplicaDSN = "postgres-replica-dsn"
	keyRedisAddr          = "redis-addr"
	keyRedisPassword      = "redis-password"
	keyRedisDB            = "redis-db"
	keyListen             = "listen"
	keyRateLimitRPS       = "rate-limit-rps"
	keyRateLimitBurst     = "rate-limit-burst"
	keyEncryptionKey      = "encryption-key"
	keyLogLevel           = "log-level"
	keyOTLPEndpoint       = "otlp-endpoint"
	keyMetrics            = "metrics"
	keyShutdownTimeout    = "shutdown-timeout"
)

const (
	storageMemory   = "memory"
	storagePostgres = "postgres"
	storageRedis    = "redis"

	driverPGX  = "pgx"
	driverSQL  = "sql"
	driverSQLX = "sqlx"

	metricsPrometheus = "prometheus"
	metricsOTel       = "otel"
	metricsNone       = "none"
)

// Settings is the resolved configuration of a command run.
type Settings struct {
	Storage            string
	PostgresDriver     string
	PostgresDSN        string
	PostgresReplicaDSN string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	Listen             string
	RateLimitRPS       float64
	RateLimitBurst     int
	EncryptionKey      []byte
	LogLevel           slog.Level
	OTLPEndpoint       string
	Metrics            string
	ShutdownTimeout    int
}

func addStorageFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(keyStorage, storageMemory, "storage engine (memory, postgres, redis)")
	flags.String(keyPostgresDriver, driverPGX, "postgres driver (pgx, sql, sqlx)")
	flags.String(keyPostgresDSN, config.PostgresDefaultDSN(), "postgres connection string")
	flags.String(keyPostgresReplicaDSN, "", "optional read replica for eventually consistent reads (pgx only)")
	flags.String(keyRedisAddr, "localhost:6379", "redis address")
	flags.String(keyRedisPassword, "", "redis password")
	flags.Int(keyRedisDB, 0, "redis database")
}

// initConfig loads .env files and makes viper read MOVIELIBRARY_* environment variables.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func loadSettings() (Settings, error) {
	s := Settings{
		Storage:            strings.ToLower(viper.GetString(keyStorage)),
		PostgresDriver:     strings.ToLower(viper.GetString(keyPostgresDriver)),
		PostgresDSN:        viper.GetString(keyPostgresDSN),
		PostgresReplicaDSN: viper.GetString(keyPostgresReplicaDSN),
		RedisAddr:          viper.GetString(keyRedisAddr),
		RedisPassword:      viper.GetString(keyRedisPassword),
		RedisDB:            viper.GetInt(keyRedisDB),
		Listen:             viper.GetString(keyListen),
		RateLimitRPS:       viper.GetFloat64(keyRateLimitRPS),
		RateLimitBurst:     viper.GetInt(keyRateLimitBurst),
		OTLPEndpoint:       viper.GetString(keyOTLPEndpoint),
		Metrics:            strings.ToLower(viper.GetString(keyMetrics)),
		ShutdownTimeout:    viper.GetInt(keyShutdownTimeout),
	}

	switch s.Storage {
	case storageMemory, storagePostgres, storageRedis:
	default:
		return Settings{}, fmt.Errorf("invalid storage %q (expected one of: memory, postgres, redis)", s.Storage)
	}

	switch s.PostgresDriver {
	case driverPGX, driverSQL, driverSQLX:
	default:
		return Settings{}, fmt.Errorf("invalid postgres driver %q (expected one of: pgx, sql, sqlx)", s.PostgresDriver)
	}

	switch s.Metrics {
	case "", metricsNone:
		s.Metrics = metricsNone
	case metricsPrometheus:
	case metricsOTel:
		if s.OTLPEndpoint == "" {
			return Settings{}, fmt.Errorf("metrics %q needs %s", metricsOTel, keyOTLPEndpoint)
		}
	default:
		return Settings{}, fmt.Errorf("invalid metrics %q (expected one of: prometheus, otel, none)", s.Metrics)
	}

	if err := s.LogLevel.UnmarshalText([]byte(viper.GetString(keyLogLevel))); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}

	if encoded := viper.GetString(keyEncryptionKey); encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", keyEncryptionKey, err)
		}
		s.EncryptionKey = key
	}

	return s, nil
}

// newLogger writes JSON to stderr and adds the request's correlation id to every record.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(api.NewCorrelationLogHandler(handler))
}
