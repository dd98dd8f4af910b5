package goSSO

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventAttachSuccess         = "attach_success"
	auditEventAttachRejected        = "attach_rejected"
	auditEventBrokerSessionStarted  = "broker_session_started"
	auditEventBrokerSessionRejected = "broker_session_rejected"
)

// AuditErrorCode defines a public type used by goSSO APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrCredentialMissing     AuditErrorCode = "credential_missing"
	auditErrCredentialInvalid     AuditErrorCode = "credential_invalid"
	auditErrParameterMissing      AuditErrorCode = "parameter_missing"
	auditErrBrokerUnknown         AuditErrorCode = "broker_unknown"
	auditErrChecksumInvalid       AuditErrorCode = "checksum_invalid"
	auditErrDomainNotAllowed      AuditErrorCode = "domain_not_allowed"
	auditErrSessionNotLinked      AuditErrorCode = "session_not_linked"
	auditErrSessionAlreadyStarted AuditErrorCode = "session_already_started"
	auditErrSessionStartFailed    AuditErrorCode = "session_start_failed"
	auditErrUnavailable           AuditErrorCode = "backend_unavailable"
	auditErrInternal              AuditErrorCode = "internal_error"
)

func (s *Server) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	brokerID string,
	token string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if s == nil || s.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		BrokerID:  brokerID,
		Token:     token,
		SessionID: sessionID,
		RequestID: requestIDFromContext(ctx),
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	s.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrCredentialMissing):
		return auditErrCredentialMissing
	case errors.Is(err, ErrCredentialInvalid):
		return auditErrCredentialInvalid
	case errors.Is(err, ErrParameterMissing):
		return auditErrParameterMissing
	case errors.Is(err, ErrBrokerUnknown):
		return auditErrBrokerUnknown
	case errors.Is(err, ErrChecksumInvalid):
		return auditErrChecksumInvalid
	case errors.Is(err, ErrDomainNotAllowed):
		return auditErrDomainNotAllowed
	case errors.Is(err, ErrSessionNotLinked):
		return auditErrSessionNotLinked
	case errors.Is(err, ErrSessionAlreadyStarted):
		return auditErrSessionAlreadyStarted
	case errors.Is(err, ErrSessionStartFailed):
		return auditErrSessionStartFailed
	case errors.Is(err, ErrBrokerLookup),
		errors.Is(err, ErrLinkUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
