package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis transport failure so callers can
// tell backend outage apart from a plain miss.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Redis is a Cache backed by a shared Redis deployment. Keys are
// namespaced with a prefix; entries may carry an expiry so abandoned
// handshake links age out.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis returns a Redis cache on the given client. Keys are stored
// under "prefix:"; a ttl of zero stores entries without expiry.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

// Get returns the value stored under key, or ErrMiss when absent.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (r *Redis) Set(ctx context.Context, key, value string) (bool, error) {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return true, nil
}

// Ping verifies connectivity and reports the round-trip latency.
func (r *Redis) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
