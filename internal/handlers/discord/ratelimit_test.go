package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/testutils"
)

func TestMemoryRateLimitStoreWindows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryRateLimitStore()
	store.now = func() time.Time { return now }

	for want := 1; want <= 3; want++ {
		count, err := store.Increment(ctx, "user", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	count, err := store.Increment(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	now = now.Add(61 * time.Second)
	count, err = store.Increment(ctx, "user", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.buckets, 1)
}

func TestRedisRateLimitStore(t *testing.T) {
	ctx := context.Background()
	client, mr := testutils.CreateMiniredisClient(t)
	store := NewRedisRateLimitStore(client)

	for want := 1; want <= 2; want++ {
		count, err := store.Increment(ctx, "ratelimit:sheet:user", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:sheet:user"))

	mr.FastForward(time.Minute + time.Second)
	count, err := store.Increment(ctx, "ratelimit:sheet:user", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedisRateLimitStoreErrors(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := NewRedisRateLimitStore(client)

	mock.ExpectIncr("k").SetErr(errors.New("connection refused"))
	_, err := store.Increment(ctx, "k", time.Minute)
	require.Error(t, err)
	assert.Equal(t, "k", dnderr.GetMeta(err)["key"])

	mock.ExpectIncr("k").SetVal(1)
	mock.ExpectExpire("k", time.Minute).SetErr(errors.New("timeout"))
	_, err = store.Increment(ctx, "k", time.Minute)
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("down")
}

func TestRateLimiterCheck(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, newRateLimiter(nil))
	assert.Nil(t, newRateLimiter(&RateLimitConfig{MaxRequests: 0, Window: time.Minute}))

	var disabled *rateLimiter
	assert.NoError(t, disabled.check(ctx, "user"))

	limiter := newRateLimiter(&RateLimitConfig{MaxRequests: 2, Window: time.Minute})
	assert.NoError(t, limiter.check(ctx, "user"))
	assert.NoError(t, limiter.check(ctx, "user"))
	err := limiter.check(ctx, "user")
	assert.True(t, dnderr.IsInvalidArgument(err))
	assert.Contains(t, userMessage(err), "too fast")
	assert.NoError(t, limiter.check(ctx, ""))

	open := newRateLimiter(&RateLimitConfig{MaxRequests: 1, Window: time.Minute, Store: failingStore{}})
	assert.NoError(t, open.check(ctx, "user"))
	assert.NoError(t, open.check(ctx, "user"))
}
