package discord

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

const rateLimitKeyPrefix = "ratelimit:sheet:"

// RateLimitConfig configures per-user rate limiting of /sheet interactions
type RateLimitConfig struct {
	// MaxRequests is the maximum number of interactions per window
	MaxRequests int

	// Window is the fixed window length
	Window time.Duration

	// Store for tracking counts (if nil, uses in-memory)
	Store RateLimitStore
}

// RateLimitStore counts requests per key in fixed windows
type RateLimitStore interface {
	// Increment increments the counter for a key and returns the new count
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}

type rateLimiter struct {
	max    int
	window time.Duration
	store  RateLimitStore
}

func newRateLimiter(cfg *RateLimitConfig) *rateLimiter {
	if cfg == nil || cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		return nil
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryRateLimitStore()
	}
	return &rateLimiter{max: cfg.MaxRequests, window: cfg.Window, store: store}
}

// check returns an InvalidArgument error once userID is over the limit. Store
// failures are logged and let the request through.
func (r *rateLimiter) check(ctx context.Context, userID string) error {
	if r == nil || userID == "" {
		return nil
	}
	count, err := r.store.Increment(ctx, rateLimitKeyPrefix+userID, r.window)
	if err != nil {
		log.Printf("Rate limit store error for %s: %v", userID, err)
		return nil
	}
	if count > r.max {
		return dnderr.InvalidArgumentf("⏱️ You're doing that too fast! Please wait %v before trying again.", r.window).
			WithMeta("user_id", userID)
	}
	return nil
}

// MemoryRateLimitStore is an in-memory rate limit store. Expired buckets are
// dropped on the next increment.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewMemoryRateLimitStore creates a new in-memory store
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Increment increments the counter for a key
func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, b := range s.buckets {
		if now.After(b.resetAt) {
			delete(s.buckets, k)
		}
	}

	b, exists := s.buckets[key]
	if !exists {
		b = &bucket{resetAt: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// RedisRateLimitStore shares counters between bot instances
type RedisRateLimitStore struct {
	client redis.UniversalClient
}

// NewRedisRateLimitStore creates a Redis-backed store
func NewRedisRateLimitStore(client redis.UniversalClient) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

// Increment bumps the key and starts its expiry on the first hit of a window
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, dnderr.Wrapf(err, "failed to increment %s", key).WithMeta("key", key)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, dnderr.Wrapf(err, "failed to set expiry on %s", key).WithMeta("key", key)
		}
	}
	return int(count), nil
}
