package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/config"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/postgresengine"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/redisengine"
)

// openedStore is a record store together with the means to probe and release its backend.
type openedStore struct {
	store       recordstore.Store
	postgres    *postgresengine.RecordStore
	healthCheck func(r *http.Request) error
	close       func() error
}

func openStore(ctx context.Context, s Settings, obs app.ObservabilityConfig) (openedStore, error) {
	switch s.Storage {
	case storagePostgres:
		return openPostgresStore(ctx, s, obs)
	case storageRedis:
		return openRedisStore(ctx, s, obs)
	default:
		store, err := memoryengine.NewRecordStore(memoryOptions(obs)...)
		if err != nil {
			return openedStore{}, err
		}

		return openedStore{store: store, close: func() error { return nil }}, nil
	}
}

func openPostgresStore(ctx context.Context, s Settings, obs app.ObservabilityConfig) (openedStore, error) {
	options := postgresOptions(obs)

	switch s.PostgresDriver {
	case driverSQL:
		db, err := config.PostgresSQLDB(ctx, s.PostgresDSN)
		if err != nil {
			return openedStore{}, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		store, err := postgresengine.NewRecordStoreFromSQLDB(db, options...)
		if err != nil {
			return openedStore{}, errors.Join(err, db.Close())
		}

		return openedStore{
			store:       store,
			postgres:    store,
			healthCheck: func(r *http.Request) error { return db.PingContext(r.Context()) },
			close:       db.Close,
		}, nil

	case driverSQLX:
		db, err := config.PostgresSQLX(ctx, s.PostgresDSN)
		if err != nil {
			return openedStore{}, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		store, err := postgresengine.NewRecordStoreFromSQLX(db, options...)
		if err != nil {
			return openedStore{}, errors.Join(err, db.Close())
		}

		return openedStore{
			store:       store,
			postgres:    store,
			healthCheck: func(r *http.Request) error { return db.PingContext(r.Context()) },
			close:       db.Close,
		}, nil

	default:
		pool, err := config.PostgresPGXPool(ctx, s.PostgresDSN)
		if err != nil {
			return openedStore{}, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if s.PostgresReplicaDSN == "" {
			store, err := postgresengine.NewRecordStoreFromPGXPool(pool, options...)
			if err != nil {
				pool.Close()
				return openedStore{}, err
			}

			return openedStore{
				store:       store,
				postgres:    store,
				healthCheck: func(r *http.Request) error { return pool.Ping(r.Context()) },
				close:       func() error { pool.Close(); return nil },
			}, nil
		}

		replica, err := config.PostgresPGXPool(ctx, s.PostgresReplicaDSN)
		if err != nil {
			pool.Close()
			return openedStore{}, fmt.Errorf("failed to connect to postgres replica: %w", err)
		}

		store, err := postgresengine.NewRecordStoreFromPGXPoolWithReplica(pool, replica, options...)
		if err != nil {
			pool.Close()
			replica.Close()
			return openedStore{}, err
		}

		return openedStore{
			store:       store,
			postgres:    store,
			healthCheck: func(r *http.Request) error { return pool.Ping(r.Context()) },
			close:       func() error { pool.Close(); replica.Close(); return nil },
		}, nil
	}
}

func openRedisStore(ctx context.Context, s Settings, obs app.ObservabilityConfig) (openedStore, error) {
	client, err := config.RedisClient(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB)
	if err != nil {
		return openedStore{}, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := redisengine.NewRecordStore(client, redisOptions(obs)...)
	if err != nil {
		return openedStore{}, errors.Join(err, client.Close())
	}

	return openedStore{
		store:       store,
		healthCheck: func(r *http.Request) error { return client.Ping(r.Context()).Err() },
		close:       client.Close,
	}, nil
}

func memoryOptions(obs app.ObservabilityConfig) []memoryengine.Option {
	var options []memoryengine.Option
	if obs.Logger != nil {
		options = append(options, memoryengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, memoryengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, memoryengine.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, memoryengine.WithTracing(obs.TracingCollector))
	}

	return options
}

func postgresOptions(obs app.ObservabilityConfig) []postgresengine.Option {
	var options []postgresengine.Option
	if obs.Logger != nil {
		options = append(options, postgresengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, postgresengine.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, postgresengine.WithTracing(obs.TracingCollector))
	}

	return options
}

func redisOptions(obs app.ObservabilityConfig) []redisengine.Option {
	var options []redisengine.Option
	if obs.Logger != nil {
		options = append(options, redisengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, redisengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.MetricsCollector != nil {
		options = append(options, redisengine.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, redisengine.WithTracing(obs.TracingCollector))
	}

	return options
}
