package httpapi

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	goSSO "github.com/MrEthical07/goSSO"
)

// requestContext stamps a request id and the client address into the
// request context and echoes the id back to the caller.
func (a *API) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := goSSO.WithRequestID(r.Context(), requestID)
		ctx = goSSO.WithClientIP(ctx, clientAddr(r))

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientAddr returns the peer address without the port. Proxy headers are
// not consulted; deployments behind a proxy terminate them upstream.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Attach handles GET /attach.
// Validates the broker's attach parameters, binds the token to the caller's
// session, and either redirects to the validated return_url or confirms in
// JSON.
func (a *API) Attach(w http.ResponseWriter, r *http.Request) {
	sess := a.issuer.Lifecycle(w, r)

	result, err := a.server.Attach(r.Context(), goSSO.HTTPRequest(r), sess)
	if err != nil {
		a.mapError(w, err)
		return
	}

	if result.ReturnURL != "" {
		http.Redirect(w, r, result.ReturnURL, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, AttachResponse{Attached: true})
}

// StartSession handles POST /session.
// Verifies the bearer credential and resumes the session the token was
// attached to. The session id travels only inside the signed cookie.
func (a *API) StartSession(w http.ResponseWriter, r *http.Request) {
	sess := a.issuer.Lifecycle(w, r)

	if _, err := a.server.StartBrokerSession(r.Context(), goSSO.HTTPRequest(r), sess); err != nil {
		a.mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StartSessionResponse{Success: true})
}

// Healthz handles GET /healthz.
func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.server.Health(r.Context()); err != nil {
		a.logger.Warn("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
