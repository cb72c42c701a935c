package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestRedisAddrEnv selects a real Redis server for tests instead of miniredis
const TestRedisAddrEnv = "TEST_REDIS_ADDR"

// CreateMiniredisClient starts an in-process Redis and returns a client for it.
// Both are closed when the test ends.
func CreateMiniredisClient(t testing.TB) (redis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

// CreateTestRedisClient returns a client for TEST_REDIS_ADDR when it is set,
// flushing DB 15 before and after the test. Otherwise it falls back to miniredis.
func CreateTestRedisClient(t testing.TB) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv(TestRedisAddrEnv)
	if addr == "" {
		client, _ := CreateMiniredisClient(t)
		return client
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // Use DB 15 for tests to avoid conflicts
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis at %s not available for testing: %v", addr, err)
	}

	err := client.FlushDB(ctx).Err()
	require.NoError(t, err, "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
