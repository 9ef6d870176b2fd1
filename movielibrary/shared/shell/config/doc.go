// Package config provides connection and telemetry configuration helpers for the movie library.
//
// This package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB), a Redis client,
// and the OpenTelemetry providers used when an OTLP endpoint is configured.
//
// This package is part of the shell (infrastructure) layer.
package config
