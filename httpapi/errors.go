package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	goSSO "github.com/MrEthical07/goSSO"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// mapError translates server sentinels onto HTTP statuses. Protocol errors
// carry their message; infrastructure failures collapse to a generic 500 so
// backend details stay out of responses.
func (a *API) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goSSO.ErrCredentialMissing):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, goSSO.ErrParameterMissing),
		errors.Is(err, goSSO.ErrSessionAlreadyStarted):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, goSSO.ErrCredentialInvalid),
		errors.Is(err, goSSO.ErrChecksumInvalid),
		errors.Is(err, goSSO.ErrBrokerUnknown),
		errors.Is(err, goSSO.ErrDomainNotAllowed),
		errors.Is(err, goSSO.ErrSessionNotLinked):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		a.logger.Error("handshake failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
