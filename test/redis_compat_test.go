//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisMode describes which Redis backend the compatibility suite is running against.
type redisMode struct {
	name  string
	setup func(t *testing.T) (redis.UniversalClient, func())
}

// redisModes returns the set of Redis backends to test.
// miniredis is always available. Real backends opt in by env var:
//
//	REDIS_ADDR            standalone, e.g. "127.0.0.1:6379"
//	REDIS_CLUSTER_ADDRS   comma-separated cluster nodes
//	REDIS_SENTINEL_ADDRS  comma-separated sentinels (+ REDIS_SENTINEL_MASTER)
func redisModes(t *testing.T) []redisMode {
	t.Helper()
	modes := []redisMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				return rdb, func() { _ = rdb.Close(); mr.Close() }
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				requireReachable(t, rdb, addr)
				// Flush the test DB to avoid state leaking between runs.
				rdb.FlushDB(context.Background())
				return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
			},
		})
	}

	if addrs := os.Getenv("REDIS_CLUSTER_ADDRS"); addrs != "" {
		modes = append(modes, redisMode{
			name: "cluster",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClusterClient(&redis.ClusterOptions{Addrs: splitAddrs(addrs)})
				requireReachable(t, rdb, addrs)
				return rdb, func() { _ = rdb.Close() }
			},
		})
	}

	if addrs := os.Getenv("REDIS_SENTINEL_ADDRS"); addrs != "" {
		master := os.Getenv("REDIS_SENTINEL_MASTER")
		if master == "" {
			master = "mymaster"
		}
		modes = append(modes, redisMode{
			name: "sentinel",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewFailoverClient(&redis.FailoverOptions{
					MasterName:    master,
					SentinelAddrs: splitAddrs(addrs),
				})
				requireReachable(t, rdb, addrs)
				rdb.FlushDB(context.Background())
				return rdb, func() { rdb.FlushDB(context.Background()); _ = rdb.Close() }
			},
		})
	}

	return modes
}

func requireReachable(t *testing.T, rdb redis.UniversalClient, addr string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("cannot connect to Redis at %s: %v", addr, err)
	}
}

func splitAddrs(raw string) []string {
	var out []string
	for _, part := range splitComma(raw) {
		if p := trimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitComma(raw string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == ',' {
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}
	return append(parts, raw[start:])
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// TestRedisCompat_Handshake runs the full attach + resume handshake against
// each available backend.
func TestRedisCompat_Handshake(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			srv := newIntegrationServer(t, rdb, "sso", 0)
			ctx := context.Background()

			if _, err := srv.Attach(ctx, attachReq("tok_compat"), session.Resume("sid-compat")); err != nil {
				t.Fatalf("attach: %v", err)
			}

			linked, err := srv.LinkedSession(ctx, integrationBroker, "tok_compat")
			if err != nil {
				t.Fatalf("linked session: %v", err)
			}
			if linked != "sid-compat" {
				t.Fatalf("linked session = %q, want sid-compat", linked)
			}

			result, err := srv.StartBrokerSession(ctx, bearerReq("tok_compat"), session.NewMemory())
			if err != nil {
				t.Fatalf("resume: %v", err)
			}
			if result.SessionID != "sid-compat" {
				t.Fatalf("resumed session = %q, want sid-compat", result.SessionID)
			}
		})
	}
}

// TestRedisCompat_LinkOverwrite validates last-writer-wins across backends.
func TestRedisCompat_LinkOverwrite(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			srv := newIntegrationServer(t, rdb, "sso", 0)
			ctx := context.Background()

			if _, err := srv.Attach(ctx, attachReq("tok_ow"), session.Resume("sid-first")); err != nil {
				t.Fatalf("first attach: %v", err)
			}
			if _, err := srv.Attach(ctx, attachReq("tok_ow"), session.Resume("sid-second")); err != nil {
				t.Fatalf("second attach: %v", err)
			}

			result, err := srv.StartBrokerSession(ctx, bearerReq("tok_ow"), session.NewMemory())
			if err != nil {
				t.Fatalf("resume: %v", err)
			}
			if result.SessionID != "sid-second" {
				t.Fatalf("resumed session = %q, want sid-second", result.SessionID)
			}
		})
	}
}

// TestRedisCompat_UnattachedMiss validates the link-miss path across backends.
func TestRedisCompat_UnattachedMiss(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			srv := newIntegrationServer(t, rdb, "sso", 0)

			_, err := srv.StartBrokerSession(context.Background(), bearerReq("tok_missing"), session.NewMemory())
			if !errors.Is(err, goSSO.ErrSessionNotLinked) {
				t.Fatalf("expected ErrSessionNotLinked, got %v", err)
			}
		})
	}
}

// TestRedisCompat_PrefixIsolation ensures two servers with different key
// prefixes on the same backend do not see each other's links.
func TestRedisCompat_PrefixIsolation(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			srvA := newIntegrationServer(t, rdb, "ssoA", 0)
			srvB := newIntegrationServer(t, rdb, "ssoB", 0)
			ctx := context.Background()

			if _, err := srvA.Attach(ctx, attachReq("tok_iso"), session.Resume("sid-a")); err != nil {
				t.Fatalf("attach on A: %v", err)
			}

			if _, err := srvB.StartBrokerSession(ctx, bearerReq("tok_iso"), session.NewMemory()); !errors.Is(err, goSSO.ErrSessionNotLinked) {
				t.Fatalf("expected isolation miss on B, got %v", err)
			}
		})
	}
}

// TestRedisCompat_Ping validates the health path across backends.
func TestRedisCompat_Ping(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			rdb, cleanup := mode.setup(t)
			defer cleanup()

			store := cache.NewRedis(rdb, "sso", 0)
			if _, err := store.Ping(context.Background()); err != nil {
				t.Fatalf("ping: %v", err)
			}
		})
	}
}
