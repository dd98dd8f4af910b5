package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/metrics/export/prometheus"
	"github.com/MrEthical07/goSSO/session"
)

// API holds the dependencies needed by the HTTP handlers.
type API struct {
	server *goSSO.Server
	issuer *session.Issuer
	logger *slog.Logger
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for handler diagnostics.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// New creates a new API instance. The cookie config carries the signing
// secret for the session cookie; an empty secret is rejected.
func New(server *goSSO.Server, cookie session.CookieConfig, opts ...Option) (*API, error) {
	if server == nil {
		return nil, errors.New("server required")
	}

	issuer, err := session.NewIssuer(cookie)
	if err != nil {
		return nil, err
	}

	a := &API{
		server: server,
		issuer: issuer,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return a, nil
}

// Router returns a chi.Router with all handshake routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(a.requestContext)

	r.Get("/attach", a.Attach)
	r.Post("/session", a.StartSession)
	r.Get("/healthz", a.Healthz)
	r.Method(http.MethodGet, "/metrics", prometheus.NewPrometheusExporter(a.server).Handler())

	return r
}
