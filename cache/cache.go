package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports a key with no stored value.
var ErrMiss = errors.New("cache miss")

// Cache is the key-value contract the session link store runs on.
// Implementations must provide per-key atomicity for Get and Set.
type Cache interface {
	// Get returns the value stored under key, or ErrMiss when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value. The
	// boolean reports whether the write was accepted.
	Set(ctx context.Context, key, value string) (bool, error)
}

// Pinger is implemented by backends that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}
