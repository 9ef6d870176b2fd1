package postgresengine

import (
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithMovieTableName sets the table name used for movies.
func WithMovieTableName(tableName string) Option {
	return func(s *RecordStore) error {
		if tableName == "" {
			return recordstore.ErrEmptyTableNameSupplied
		}

		s.movieTableName = tableName

		return nil
	}
}

// WithRentalTableName sets the table name used for rentals.
func WithRentalTableName(tableName string) Option {
	return func(s *RecordStore) error {
		if tableName == "" {
			return recordstore.ErrEmptyTableNameSupplied
		}

		s.rentalTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the RecordStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Record counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger recordstore.Logger) Option {
	return func(s *RecordStore) error {
		s.in.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the RecordStore.
// It receives the same messages as the Logger, together with the operation's context for trace correlation.
func WithContextualLogger(logger recordstore.ContextualLogger) Option {
	return func(s *RecordStore) error {
		s.in.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the RecordStore.
func WithMetrics(collector recordstore.MetricsCollector) Option {
	return func(s *RecordStore) error {
		s.in.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the RecordStore.
func WithTracing(collector recordstore.TracingCollector) Option {
	return func(s *RecordStore) error {
		s.in.Tracing = collector
		return nil
	}
}

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *RecordStore) error {
		if clock != nil {
			s.clock = clock
		}

		return nil
	}
}
