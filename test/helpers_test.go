//go:build integration
// +build integration

package test

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/broker"
	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/credential"
	"github.com/redis/go-redis/v9"
)

const (
	integrationBroker = "shop"
	integrationSecret = "integration-broker-secret"
)

// newIntegrationServer builds a Server over a redis-backed link store with
// one static broker. Metrics stay enabled so budget tests can assert on
// snapshots too.
func newIntegrationServer(t *testing.T, rdb redis.UniversalClient, prefix string, ttl time.Duration) *goSSO.Server {
	t.Helper()

	brokers := broker.NewStatic()
	brokers.Put(integrationBroker, goSSO.BrokerInfo{Secret: integrationSecret})

	srv, err := goSSO.New().
		WithCache(cache.NewRedis(rdb, prefix, ttl)).
		WithBrokers(brokers).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func attachReq(token string) goSSO.Request {
	sum := credential.Checksum(integrationSecret, credential.CommandAttach, token)
	target := "/attach?" + url.Values{
		"broker":   {integrationBroker},
		"token":    {token},
		"checksum": {sum},
	}.Encode()
	return goSSO.HTTPRequest(httptest.NewRequest("GET", target, nil))
}

func bearerReq(token string) goSSO.Request {
	sum := credential.Checksum(integrationSecret, credential.CommandBearer, token)
	r := httptest.NewRequest("POST", "/session", nil)
	r.Header.Set("Authorization", "Bearer "+credential.Render(integrationBroker, token, sum))
	return goSSO.HTTPRequest(r)
}
