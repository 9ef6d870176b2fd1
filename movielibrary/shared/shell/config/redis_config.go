package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const envRedisTestAddr = "REDIS_TEST_ADDR"

// RedisTestAddr returns the address of the test Redis server, REDIS_TEST_ADDR if it is set.
func RedisTestAddr() string {
	if addr := os.Getenv(envRedisTestAddr); addr != "" {
		return addr
	}

	return "localhost:6379"
}

// RedisClient creates a Redis client and verifies it with a ping.
func RedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	const defaultPoolSize = 20
	const defaultDialTimeout = time.Second * 5
	const defaultReadTimeout = time.Second * 3
	const defaultWriteTimeout = time.Second * 3

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     defaultPoolSize,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		_ = client.Close()
		return nil, pingErr
	}

	return client, nil
}
