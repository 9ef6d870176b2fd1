package storewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/config"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/postgresengine"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/redisengine"
)

// Engine and adapter type constants
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"

	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"

	connectTimeout = 3 * time.Second
)

// Options configure the engine under test. Every engine gets the same collectors.
type Options struct {
	Logger           recordstore.Logger
	ContextualLogger recordstore.ContextualLogger
	Metrics          recordstore.MetricsCollector
	Tracing          recordstore.TracingCollector
	Clock            func() time.Time
}

// Wrapper abstracts over the engines under test.
type Wrapper interface {
	GetRecordStore() recordstore.Store
	EngineName() string
	Close()
}

// MemoryWrapper wraps the in-memory engine.
type MemoryWrapper struct {
	store *memoryengine.RecordStore
}

func (w *MemoryWrapper) GetRecordStore() recordstore.Store { return w.store }
func (w *MemoryWrapper) EngineName() string                { return EngineMemory }
func (w *MemoryWrapper) Close()                            {}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store *postgresengine.RecordStore
}

func (w *PGXPoolWrapper) GetRecordStore() recordstore.Store { return w.store }
func (w *PGXPoolWrapper) EngineName() string                { return EnginePostgres }
func (w *PGXPoolWrapper) Close()                            { w.pool.Close() }

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db    *sql.DB
	store *postgresengine.RecordStore
}

func (w *SQLDBWrapper) GetRecordStore() recordstore.Store { return w.store }
func (w *SQLDBWrapper) EngineName() string                { return EnginePostgres }
func (w *SQLDBWrapper) Close()                            { _ = w.db.Close() }

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db    *sqlx.DB
	store *postgresengine.RecordStore
}

func (w *SQLXWrapper) GetRecordStore() recordstore.Store { return w.store }
func (w *SQLXWrapper) EngineName() string                { return EnginePostgres }
func (w *SQLXWrapper) Close()                            { _ = w.db.Close() }

// RedisWrapper wraps Redis-based testing.
type RedisWrapper struct {
	client *redis.Client
	store  *redisengine.RecordStore
}

func (w *RedisWrapper) GetRecordStore() recordstore.Store { return w.store }
func (w *RedisWrapper) EngineName() string                { return EngineRedis }
func (w *RedisWrapper) Close()                            { _ = w.client.Close() }

// CreateWrapperWithTestConfig creates the engine selected by the environment, with no collectors.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	return CreateWrapperWithOptions(t, Options{})
}

// CreateWrapperWithOptions creates the engine selected by the environment, empties it and
// registers Close as test cleanup.
func CreateWrapperWithOptions(t testing.TB, opts Options) Wrapper {
	engine := strings.ToLower(os.Getenv("STORE_ENGINE"))

	var wrapper Wrapper

	switch engine {
	case EngineMemory, "":
		wrapper = createMemoryWrapper(t, opts)

	case EnginePostgres:
		wrapper = createPostgresWrapper(t, opts)

	case EngineRedis:
		wrapper = createRedisWrapper(t, opts)

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported engine type from env: %s", engine))
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

func createMemoryWrapper(t testing.TB, opts Options) Wrapper {
	options := []memoryengine.Option{
		memoryengine.WithLogger(opts.Logger),
		memoryengine.WithContextualLogger(opts.ContextualLogger),
		memoryengine.WithMetrics(opts.Metrics),
		memoryengine.WithTracing(opts.Tracing),
		memoryengine.WithClock(opts.Clock),
	}

	store, err := memoryengine.NewRecordStore(options...)
	require.NoError(t, err, "error creating memory record store")

	return &MemoryWrapper{store: store}
}

func createPostgresWrapper(t testing.TB, opts Options) Wrapper {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dsn := config.PostgresTestDSN()
	options := postgresOptions(opts)

	var (
		wrapper Wrapper
		store   *postgresengine.RecordStore
		err     error
	)

	switch adapter := strings.ToLower(os.Getenv("ADAPTER_TYPE")); adapter {
	case typePGXPool, "":
		pool, connErr := config.PostgresPGXPool(ctx, dsn)
		skipIfUnreachable(t, EnginePostgres, connErr)

		store, err = postgresengine.NewRecordStoreFromPGXPool(pool, options...)
		wrapper = &PGXPoolWrapper{pool: pool, store: store}

	case typeSQLDB:
		db, connErr := config.PostgresSQLDB(ctx, dsn)
		skipIfUnreachable(t, EnginePostgres, connErr)

		store, err = postgresengine.NewRecordStoreFromSQLDB(db, options...)
		wrapper = &SQLDBWrapper{db: db, store: store}

	case typeSQLXDB:
		db, connErr := config.PostgresSQLX(ctx, dsn)
		skipIfUnreachable(t, EnginePostgres, connErr)

		store, err = postgresengine.NewRecordStoreFromSQLX(db, options...)
		wrapper = &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapter))
	}

	require.NoError(t, err, "error creating postgres record store")
	require.NoError(t, store.CreateSchema(ctx), "error creating schema")
	CleanUp(t, wrapper)

	return wrapper
}

func createRedisWrapper(t testing.TB, opts Options) Wrapper {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, connErr := config.RedisClient(ctx, config.RedisTestAddr(), "", 0)
	skipIfUnreachable(t, EngineRedis, connErr)

	options := []redisengine.Option{
		redisengine.WithKeyPrefix("{movielibrary-test}"),
		redisengine.WithLogger(opts.Logger),
		redisengine.WithContextualLogger(opts.ContextualLogger),
		redisengine.WithMetrics(opts.Metrics),
		redisengine.WithTracing(opts.Tracing),
		redisengine.WithClock(opts.Clock),
	}

	store, err := redisengine.NewRecordStore(client, options...)
	require.NoError(t, err, "error creating redis record store")

	wrapper := &RedisWrapper{client: client, store: store}
	CleanUp(t, wrapper)

	return wrapper
}

func postgresOptions(opts Options) []postgresengine.Option {
	return []postgresengine.Option{
		postgresengine.WithLogger(opts.Logger),
		postgresengine.WithContextualLogger(opts.ContextualLogger),
		postgresengine.WithMetrics(opts.Metrics),
		postgresengine.WithTracing(opts.Tracing),
		postgresengine.WithClock(opts.Clock),
	}
}

func skipIfUnreachable(t testing.TB, engine string, err error) {
	if err != nil {
		t.Skipf("%s not reachable, skipping: %v", engine, err)
	}
}

// CleanUp removes all records from the engine behind the wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	ctx := context.Background()

	switch w := wrapper.(type) {
	case *MemoryWrapper:
		w.store.Reset()

	case *PGXPoolWrapper:
		_, err := w.pool.Exec(ctx, "TRUNCATE TABLE movies, rentals")
		require.NoError(t, err, "error cleaning up the tables")

	case *SQLDBWrapper:
		_, err := w.db.ExecContext(ctx, "TRUNCATE TABLE movies, rentals")
		require.NoError(t, err, "error cleaning up the tables")

	case *SQLXWrapper:
		_, err := w.db.ExecContext(ctx, "TRUNCATE TABLE movies, rentals")
		require.NoError(t, err, "error cleaning up the tables")

	case *RedisWrapper:
		keys, err := w.client.Keys(ctx, "{movielibrary-test}:*").Result()
		require.NoError(t, err, "error listing redis keys")

		if len(keys) > 0 {
			require.NoError(t, w.client.Del(ctx, keys...).Err(), "error cleaning up redis keys")
		}

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}
}
