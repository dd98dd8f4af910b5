package goSSO

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/session"
)

func TestSecurityInvariantErrorsNeverLeakSecrets(t *testing.T) {
	srv := newTestServer(t, cache.NewMemory(), demoBrokers())
	ctx := context.Background()

	rejections := []struct {
		name string
		run  func() error
	}{
		{"attach wrong checksum", func() error {
			bad := attachRequest("tok1")
			bad.params["checksum"] = bearerChecksum("tok1")
			_, err := srv.Attach(ctx, bad, session.NewMemory())
			return err
		}},
		{"attach unknown broker", func() error {
			bad := attachRequest("tok1")
			bad.params["broker"] = "ghost"
			_, err := srv.Attach(ctx, bad, session.NewMemory())
			return err
		}},
		{"attach foreign origin", func() error {
			bad := attachRequest("tok1")
			bad.headers["Origin"] = "https://evil.test"
			_, err := srv.Attach(ctx, bad, session.NewMemory())
			return err
		}},
		{"bearer wrong checksum", func() error {
			_, err := srv.StartBrokerSession(ctx, bearerRequest("tok1", attachChecksum("tok1")), session.NewMemory())
			return err
		}},
		{"bearer unattached token", func() error {
			_, err := srv.StartBrokerSession(ctx, bearerRequest("tok9", bearerChecksum("tok9")), session.NewMemory())
			return err
		}},
		{"bearer malformed credential", func() error {
			req := fakeRequest{headers: map[string]string{"Authorization": "Bearer SSO-demo-tok1"}}
			_, err := srv.StartBrokerSession(ctx, req, session.NewMemory())
			return err
		}},
	}

	needles := []string{
		"abc123",
		attachChecksum("tok1"),
		bearerChecksum("tok1"),
		bearerChecksum("tok9"),
	}

	for _, tc := range rejections {
		err := tc.run()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		msg := err.Error()
		for _, needle := range needles {
			if strings.Contains(msg, needle) {
				t.Fatalf("%s: error %q leaks %q", tc.name, msg, needle)
			}
		}
	}
}

func TestSecurityInvariantChecksumLogsOmitSecret(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv, err := New().
		WithCache(cache.NewMemory()).
		WithBrokers(demoBrokers()).
		WithLogger(logger).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer srv.Close()

	bad := attachRequest("tok1")
	bad.params["checksum"] = bearerChecksum("tok1")
	if _, err := srv.Attach(context.Background(), bad, session.NewMemory()); err == nil {
		t.Fatal("expected checksum rejection")
	}

	out := buf.String()
	if !strings.Contains(out, attachChecksum("tok1")) {
		t.Fatal("expected mismatch log to carry the expected checksum")
	}
	if !strings.Contains(out, bearerChecksum("tok1")) {
		t.Fatal("expected mismatch log to carry the received checksum")
	}
	if strings.Contains(out, "abc123") {
		t.Fatalf("log output leaks the broker secret: %q", out)
	}
}

func TestSecurityInvariantBrokerRemovalTakesEffectImmediately(t *testing.T) {
	brokers := demoBrokers()
	srv := newTestServer(t, cache.NewMemory(), brokers)
	ctx := context.Background()

	if _, err := srv.Attach(ctx, attachRequest("tok1"), session.Resume("sid-1")); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	delete(brokers.brokers, "demo")

	_, err := srv.StartBrokerSession(ctx, bearerRequest("tok1", bearerChecksum("tok1")), session.NewMemory())
	if !errors.Is(err, ErrBrokerUnknown) {
		t.Fatalf("expected ErrBrokerUnknown after removal, got %v", err)
	}
}

func TestSecurityInvariantLinkExpiryEndsResumability(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	srv := newTestServer(t, cache.NewRedis(rdb, "sso", time.Minute), demoBrokers())
	ctx := context.Background()

	if _, err := srv.Attach(ctx, attachRequest("tok1"), session.Resume("sid-1")); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if _, err := srv.StartBrokerSession(ctx, bearerRequest("tok1", bearerChecksum("tok1")), session.NewMemory()); err != nil {
		t.Fatalf("resume before expiry failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err = srv.StartBrokerSession(ctx, bearerRequest("tok1", bearerChecksum("tok1")), session.NewMemory())
	if !errors.Is(err, ErrSessionNotLinked) {
		t.Fatalf("expected ErrSessionNotLinked after expiry, got %v", err)
	}
}
