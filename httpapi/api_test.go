package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/broker"
	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/credential"
	"github.com/MrEthical07/goSSO/httpapi"
	"github.com/MrEthical07/goSSO/session"
)

const (
	testBroker = "demo"
	testSecret = "abc123"
	testOrigin = "https://app.demo.test"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, error) {
	return "", errors.New("backend down")
}

func (failingCache) Set(context.Context, string, string) (bool, error) {
	return false, errors.New("backend down")
}

func newBrokers(t *testing.T) *broker.Static {
	t.Helper()
	brokers := broker.NewStatic()
	brokers.Put(testBroker, goSSO.BrokerInfo{
		Secret:  testSecret,
		Domains: []string{"app.demo.test"},
	})
	return brokers
}

func setupServerWithCache(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := goSSO.New().
		WithCache(c).
		WithBrokers(newBrokers(t)).
		WithLogger(logger).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	a, err := httpapi.New(srv, session.CookieConfig{
		Secret: []byte("cookie-signing-secret"),
	}, httpapi.WithLogger(logger))
	require.NoError(t, err)

	return httptest.NewServer(a.Router())
}

func setupServer(t *testing.T) *httptest.Server {
	return setupServerWithCache(t, cache.NewMemory())
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func attachURL(base, token string) string {
	sum := credential.Checksum(testSecret, credential.CommandAttach, token)
	return base + "/attach?broker=" + testBroker + "&token=" + token + "&checksum=" + sum
}

func bearerHeader(token string) string {
	sum := credential.Checksum(testSecret, credential.CommandBearer, token)
	return "Bearer " + credential.Render(testBroker, token, sum)
}

func doAttach(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAttachSetsCookieAndConfirms(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()
	client := newClient(t)

	resp := doAttach(t, client, attachURL(srv.URL, "tok1"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body httpapi.AttachResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Attached)

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "sso_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "session cookie missing")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestAttachRedirectsToReturnURL(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()
	client := newClient(t)

	resp := doAttach(t, client, attachURL(srv.URL, "tok1")+"&return_url=https%3A%2F%2Fapp.demo.test%2Fdashboard")
	defer resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "https://app.demo.test/dashboard", resp.Header.Get("Location"))
}

func TestHandshakeResumesSessionAcrossClients(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()

	attachClient := newClient(t)
	resp := doAttach(t, attachClient, attachURL(srv.URL, "tok1"))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A different client, carrying only the bearer credential, resumes the
	// session the attach leg created.
	bearerClient := newClient(t)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+"/session", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerHeader("tok1"))

	resp, err = bearerClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body httpapi.StartSessionResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)

	// The body confirms success and nothing else; the session id travels
	// only inside the signed cookie.
	assert.NotContains(t, string(raw), "session_id")

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "sso_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
}

func TestStartSessionRejectsActiveSession(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()
	client := newClient(t)

	resp := doAttach(t, client, attachURL(srv.URL, "tok1"))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Same client: the jar now carries an active session cookie.
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+"/session", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearerHeader("tok1"))

	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachRejections(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()

	wrongSum := credential.Checksum(testSecret, credential.CommandBearer, "tok1")

	cases := []struct {
		name       string
		url        string
		origin     string
		wantStatus int
	}{
		{
			name:       "missing checksum",
			url:        srv.URL + "/attach?broker=demo&token=tok1",
			origin:     testOrigin,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty token",
			url:        srv.URL + "/attach?broker=demo&token=&checksum=" + wrongSum,
			origin:     testOrigin,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "cross-command checksum",
			url:        srv.URL + "/attach?broker=demo&token=tok1&checksum=" + wrongSum,
			origin:     testOrigin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown broker",
			url:        srv.URL + "/attach?broker=ghost&token=tok1&checksum=" + wrongSum,
			origin:     testOrigin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "origin not allowed",
			url:        attachURL(srv.URL, "tok1"),
			origin:     "https://evil.test",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t)
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, tc.url, nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body httpapi.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, testSecret)
		})
	}
}

func TestStartSessionRejections(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing authorization", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "malformed credential", header: "Bearer SSO-demo-tok1", wantStatus: http.StatusForbidden},
		{name: "unattached token", header: bearerHeader("never"), wantStatus: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t)
			req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+"/session", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestInfrastructureFailureIsOpaque(t *testing.T) {
	srv := setupServerWithCache(t, failingCache{})
	defer srv.Close()
	client := newClient(t)

	resp := doAttach(t, client, attachURL(srv.URL, "tok1"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body httpapi.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal error", body.Error)
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body httpapi.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupServer(t)
	defer srv.Close()
	client := newClient(t)

	resp := doAttach(t, client, attachURL(srv.URL, "tok1"))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	require.Equal(t, http.StatusOK, metricsResp.StatusCode)

	raw, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, "gosso_attach_success_total 1")
	assert.Contains(t, out, "gosso_bearer_latency_seconds_bucket")
}
