package goSSO

import "context"

// BrokerInfo is the registry record for one broker: the shared secret that
// keys its checksums and the exact hosts its URLs may point at.
type BrokerInfo struct {
	// Secret keys every HMAC checksum this broker presents. It is never
	// logged and never included in errors.
	Secret string

	// Domains is the exact-match host allow-list used for Origin, Referer
	// and return_url validation. An empty list rejects every host.
	Domains []string
}

// BrokerProvider supplies broker records. The Server calls Lookup fresh on
// every use and never caches the result, so secret rotation and allow-list
// edits take effect on the next request.
type BrokerProvider interface {
	// Lookup returns the record for brokerID. found is false when the
	// broker is not registered; err is reserved for registry failures.
	Lookup(ctx context.Context, brokerID string) (info BrokerInfo, found bool, err error)
}

// Request is the transport view of one inbound request. Header returns ""
// for absent headers; QueryParam distinguishes absent from present.
// [HTTPRequest] adapts a *http.Request; tests and non-HTTP embeddings
// supply their own.
type Request interface {
	Header(name string) string
	QueryParam(name string) (value string, ok bool)
}

// AttachResult reports a completed attach flow: the broker token is now
// bound to SessionID in the link store.
type AttachResult struct {
	BrokerID  string
	Token     string
	SessionID string

	// ReturnURL is the validated return_url query parameter, or "" when
	// the broker supplied none.
	ReturnURL string
}

// BrokerSessionResult reports a completed broker session start: the bearer
// credential resolved to SessionID and the session lifecycle resumed it.
type BrokerSessionResult struct {
	BrokerID  string
	Token     string
	SessionID string
}
