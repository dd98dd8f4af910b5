package goSSO

import "errors"

var (
	// ErrCredentialMissing is an exported constant or variable used by the SSO server.
	ErrCredentialMissing = errors.New("missing bearer credential")
	// ErrCredentialInvalid is an exported constant or variable used by the SSO server.
	ErrCredentialInvalid = errors.New("invalid bearer credential")
	// ErrParameterMissing is an exported constant or variable used by the SSO server.
	ErrParameterMissing = errors.New("missing required parameter")
	// ErrBrokerUnknown is an exported constant or variable used by the SSO server.
	ErrBrokerUnknown = errors.New("unknown broker")
	// ErrChecksumInvalid is an exported constant or variable used by the SSO server.
	ErrChecksumInvalid = errors.New("invalid checksum")
	// ErrDomainNotAllowed is an exported constant or variable used by the SSO server.
	ErrDomainNotAllowed = errors.New("domain not allowed")
	// ErrSessionNotLinked is an exported constant or variable used by the SSO server.
	ErrSessionNotLinked = errors.New("bearer token not attached to a session")
	// ErrSessionAlreadyStarted is an exported constant or variable used by the SSO server.
	ErrSessionAlreadyStarted = errors.New("session already started")
	// ErrBrokerLookup is an exported constant or variable used by the SSO server.
	ErrBrokerLookup = errors.New("broker lookup failed")
	// ErrLinkUnavailable is an exported constant or variable used by the SSO server.
	ErrLinkUnavailable = errors.New("session link store unavailable")
	// ErrSessionStartFailed is an exported constant or variable used by the SSO server.
	ErrSessionStartFailed = errors.New("session start failed")
	// ErrRequestRequired is an exported constant or variable used by the SSO server.
	ErrRequestRequired = errors.New("request required")
	// ErrLifecycleRequired is an exported constant or variable used by the SSO server.
	ErrLifecycleRequired = errors.New("session lifecycle required")
)

// IsProtocolError reports whether err is a broker or caller fault: missing
// or malformed credential, missing parameter, unknown broker, bad checksum,
// disallowed domain, unlinked token, or an already started session. These
// reject the request and log at warning.
func IsProtocolError(err error) bool {
	switch {
	case errors.Is(err, ErrCredentialMissing),
		errors.Is(err, ErrCredentialInvalid),
		errors.Is(err, ErrParameterMissing),
		errors.Is(err, ErrBrokerUnknown),
		errors.Is(err, ErrChecksumInvalid),
		errors.Is(err, ErrDomainNotAllowed),
		errors.Is(err, ErrSessionNotLinked),
		errors.Is(err, ErrSessionAlreadyStarted):
		return true
	}
	return false
}

// IsInfrastructureError reports whether err is a server-side failure:
// broker registry access, link store access, or session start. These log
// at error and surface as a server failure to the caller.
func IsInfrastructureError(err error) bool {
	switch {
	case errors.Is(err, ErrBrokerLookup),
		errors.Is(err, ErrLinkUnavailable),
		errors.Is(err, ErrSessionStartFailed),
		errors.Is(err, ErrRequestRequired),
		errors.Is(err, ErrLifecycleRequired):
		return true
	}
	return false
}
