package redisengine

import (
	"errors"
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// ErrEmptyKeyPrefixSupplied is returned by WithKeyPrefix for an empty prefix.
var ErrEmptyKeyPrefixSupplied = errors.New("empty key prefix supplied")

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithKeyPrefix sets the prefix of all keys written by the RecordStore.
func WithKeyPrefix(prefix string) Option {
	return func(s *RecordStore) error {
		if prefix == "" {
			return ErrEmptyKeyPrefixSupplied
		}

		s.prefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the RecordStore.
// Debug level logs every Redis command with its duration.
func WithLogger(logger recordstore.Logger) Option {
	return func(s *RecordStore) error {
		s.in.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the RecordStore.
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
