package httpapi

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AttachResponse is returned by GET /attach when no return_url was given.
type AttachResponse struct {
	Attached bool `json:"attached"`
}

// StartSessionResponse is returned by POST /session.
type StartSessionResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
