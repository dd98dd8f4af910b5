package goSSO

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/credential"
	"github.com/MrEthical07/goSSO/session"
)

// Server defines a public type used by goSSO APIs.
//
// Server instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Server struct {
	config  Config
	brokers BrokerProvider
	links   *linkStore
	logger  *slog.Logger
	audit   *auditDispatcher
	metrics *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) AuditDropped() uint64 {
	if s == nil || s.audit == nil {
		return 0
	}
	return s.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

func (s *Server) metricInc(id MetricID) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Inc(id)
}

func (s *Server) metricObserve(id MetricID, d time.Duration) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Observe(id, d)
}

// brokerInfo fetches the record for brokerID, never caching it across
// calls. Registry failures and unregistered brokers produce their own
// telemetry here so every flow reports them the same way.
func (s *Server) brokerInfo(ctx context.Context, brokerID, token string) (BrokerInfo, error) {
	info, found, err := s.brokers.Lookup(ctx, brokerID)
	if err != nil {
		s.metricInc(MetricInfrastructureError)
		s.logger.Error("broker lookup failed", "broker_id", brokerID, "error", err)
		return BrokerInfo{}, fmt.Errorf("%w: %v", ErrBrokerLookup, err)
	}
	if !found {
		s.metricInc(MetricUnknownBroker)
		args := []any{"broker_id", brokerID}
		if token != "" {
			args = append(args, "token", token)
		}
		s.logger.Warn("unknown broker", args...)
		return BrokerInfo{}, fmt.Errorf("%w: %q", ErrBrokerUnknown, brokerID)
	}
	return info, nil
}

// validateChecksum recomputes the expected checksum for one command and
// token under the broker's current secret and compares it with the supplied
// value in constant time. Mismatches log expected and received values for
// forensics; the secret itself never appears in logs or errors.
func (s *Server) validateChecksum(ctx context.Context, supplied string, command credential.Command, brokerID, token string) error {
	info, err := s.brokerInfo(ctx, brokerID, token)
	if err != nil {
		return err
	}

	expected := credential.Checksum(info.Secret, command, token)
	if !credential.Equal(expected, supplied) {
		s.metricInc(MetricChecksumRejected)
		s.logger.Warn("checksum mismatch",
			"broker_id", brokerID,
			"token", token,
			"command", string(command),
			"expected", expected,
			"received", supplied,
		)
		return fmt.Errorf("%w: command %s for broker %q", ErrChecksumInvalid, command, brokerID)
	}

	return nil
}

// Checksum describes the checksum operation and its observable behavior.
//
// Checksum may return an error when input validation, dependency calls, or security checks fail.
// Checksum does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) Checksum(ctx context.Context, command credential.Command, brokerID, token string) (string, error) {
	info, err := s.brokerInfo(ctx, brokerID, token)
	if err != nil {
		return "", err
	}
	return credential.Checksum(info.Secret, command, token), nil
}

// bearerCredential extracts the raw credential from the Authorization
// header. Anything other than a non-empty "Bearer " value counts as
// missing.
func bearerCredential(req Request) (string, error) {
	header := req.Header("Authorization")
	if header == "" {
		return "", ErrCredentialMissing
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrCredentialMissing
	}

	raw := strings.TrimSpace(header[len(prefix):])
	if raw == "" {
		return "", ErrCredentialMissing
	}
	return raw, nil
}

// StartBrokerSession describes the startbrokersession operation and its observable behavior.
//
// StartBrokerSession may return an error when input validation, dependency calls, or security checks fail.
// StartBrokerSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) StartBrokerSession(ctx context.Context, req Request, sess session.Lifecycle) (*BrokerSessionResult, error) {
	start := time.Now()

	if req == nil {
		return nil, ErrRequestRequired
	}
	if sess == nil {
		return nil, ErrLifecycleRequired
	}

	if sess.Active() {
		s.metricInc(MetricBrokerSessionFailure)
		s.logger.Warn("broker session rejected", "reason", "session already started", "session_id", sess.ID())
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, "", "", sess.ID(), ErrSessionAlreadyStarted, nil)
		return nil, ErrSessionAlreadyStarted
	}

	raw, err := bearerCredential(req)
	if err != nil {
		s.metricInc(MetricBrokerSessionFailure)
		s.logger.Warn("broker session rejected", "reason", "missing bearer credential")
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, "", "", "", err, nil)
		return nil, err
	}

	bearer, err := credential.Parse(raw)
	if err != nil {
		s.metricInc(MetricBrokerSessionFailure)
		s.logger.Warn("broker session rejected", "reason", "malformed bearer credential")
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, "", "", "", ErrCredentialInvalid, nil)
		return nil, fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}

	if err := s.validateChecksum(ctx, bearer.Checksum, credential.CommandBearer, bearer.BrokerID, bearer.Token); err != nil {
		s.metricInc(MetricBrokerSessionFailure)
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, bearer.BrokerID, bearer.Token, "", err, nil)
		return nil, err
	}

	sessionID, found, err := s.links.Get(ctx, bearer.BrokerID, bearer.Token)
	if err != nil {
		s.metricInc(MetricBrokerSessionFailure)
		s.metricInc(MetricInfrastructureError)
		s.logger.Error("session link read failed", "broker_id", bearer.BrokerID, "token", bearer.Token, "error", err)
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, bearer.BrokerID, bearer.Token, "", err, nil)
		return nil, err
	}
	if !found {
		s.metricInc(MetricLinkMiss)
		s.metricInc(MetricBrokerSessionFailure)
		s.logger.Warn("bearer token not attached", "broker_id", bearer.BrokerID, "token", bearer.Token)
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, bearer.BrokerID, bearer.Token, "", ErrSessionNotLinked, nil)
		return nil, fmt.Errorf("%w: broker %q", ErrSessionNotLinked, bearer.BrokerID)
	}

	if err := sess.Start(ctx, sessionID); err != nil {
		s.metricInc(MetricBrokerSessionFailure)
		s.metricInc(MetricInfrastructureError)
		s.logger.Error("session resume failed", "broker_id", bearer.BrokerID, "token", bearer.Token, "error", err)
		s.emitAudit(ctx, auditEventBrokerSessionRejected, false, bearer.BrokerID, bearer.Token, sessionID, ErrSessionStartFailed, nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionStartFailed, err)
	}

	s.metricInc(MetricBrokerSessionSuccess)
	s.metricObserve(MetricBearerLatency, time.Since(start))
	s.logger.Debug("broker session started", "broker_id", bearer.BrokerID, "token", bearer.Token, "session_id", sessionID)
	s.emitAudit(ctx, auditEventBrokerSessionStarted, true, bearer.BrokerID, bearer.Token, sessionID, nil, nil)

	return &BrokerSessionResult{
		BrokerID:  bearer.BrokerID,
		Token:     bearer.Token,
		SessionID: sessionID,
	}, nil
}

func (s *Server) attachMissingParam(ctx context.Context, name string) error {
	s.metricInc(MetricAttachFailure)
	s.logger.Warn("attach rejected", "reason", "missing required parameter", "parameter", name)
	s.emitAudit(ctx, auditEventAttachRejected, false, "", "", "", ErrParameterMissing, func() map[string]string {
		return map[string]string{"parameter": name}
	})
	return fmt.Errorf("%w: %s", ErrParameterMissing, name)
}

// Attach describes the attach operation and its observable behavior.
//
// Attach may return an error when input validation, dependency calls, or security checks fail.
// Attach does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) Attach(ctx context.Context, req Request, sess session.Lifecycle) (*AttachResult, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if sess == nil {
		return nil, ErrLifecycleRequired
	}

	brokerID, ok := req.QueryParam("broker")
	if !ok || brokerID == "" {
		return nil, s.attachMissingParam(ctx, "broker")
	}
	token, ok := req.QueryParam("token")
	if !ok || token == "" {
		return nil, s.attachMissingParam(ctx, "token")
	}
	checksum, ok := req.QueryParam("checksum")
	if !ok || checksum == "" {
		return nil, s.attachMissingParam(ctx, "checksum")
	}

	if err := s.validateChecksum(ctx, checksum, credential.CommandAttach, brokerID, token); err != nil {
		s.metricInc(MetricAttachFailure)
		s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, "", err, nil)
		return nil, err
	}

	if origin := req.Header("Origin"); origin != "" {
		if err := s.validateDomain(ctx, domainKindOrigin, origin, brokerID, token); err != nil {
			s.metricInc(MetricAttachFailure)
			s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, "", err, func() map[string]string {
				return map[string]string{"check": domainKindOrigin}
			})
			return nil, err
		}
	}

	if referer := req.Header("Referer"); referer != "" {
		if err := s.validateDomain(ctx, domainKindReferer, referer, brokerID, token); err != nil {
			s.metricInc(MetricAttachFailure)
			s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, "", err, func() map[string]string {
				return map[string]string{"check": domainKindReferer}
			})
			return nil, err
		}
	}

	returnURL, _ := req.QueryParam("return_url")
	if returnURL != "" {
		if err := s.validateDomain(ctx, domainKindReturnURL, returnURL, brokerID, ""); err != nil {
			s.metricInc(MetricAttachFailure)
			s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, "", err, func() map[string]string {
				return map[string]string{"check": domainKindReturnURL}
			})
			return nil, err
		}
	}

	created := false
	if !sess.Active() {
		if err := sess.Start(ctx, ""); err != nil {
			s.metricInc(MetricAttachFailure)
			s.metricInc(MetricInfrastructureError)
			s.logger.Error("session start failed", "broker_id", brokerID, "token", token, "error", err)
			s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, "", ErrSessionStartFailed, nil)
			return nil, fmt.Errorf("%w: %v", ErrSessionStartFailed, err)
		}
		created = true
		s.metricInc(MetricSessionCreated)
	}

	sessionID := sess.ID()

	if err := s.links.Set(ctx, brokerID, token, sessionID); err != nil {
		s.metricInc(MetricAttachFailure)
		s.metricInc(MetricInfrastructureError)
		s.logger.Error("session link write failed", "broker_id", brokerID, "token", token, "error", err)
		s.emitAudit(ctx, auditEventAttachRejected, false, brokerID, token, sessionID, err, nil)
		return nil, err
	}

	s.metricInc(MetricAttachSuccess)
	s.logger.Info("broker token attached", "broker_id", brokerID, "token", token, "session_id", sessionID)
	s.emitAudit(ctx, auditEventAttachSuccess, true, brokerID, token, sessionID, nil, func() map[string]string {
		return map[string]string{"fresh_session": strconv.FormatBool(created)}
	})

	return &AttachResult{
		BrokerID:  brokerID,
		Token:     token,
		SessionID: sessionID,
		ReturnURL: returnURL,
	}, nil
}

// LinkedSession describes the linkedsession operation and its observable behavior.
//
// LinkedSession may return an error when input validation, dependency calls, or security checks fail.
// LinkedSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) LinkedSession(ctx context.Context, brokerID, token string) (string, error) {
	sessionID, found, err := s.links.Get(ctx, brokerID, token)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: broker %q", ErrSessionNotLinked, brokerID)
	}
	return sessionID, nil
}

// Health describes the health operation and its observable behavior.
//
// Health may return an error when input validation, dependency calls, or security checks fail.
// Health does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Server) Health(ctx context.Context) error {
	p, ok := s.links.cache.(cache.Pinger)
	if !ok {
		return nil
	}
	if _, err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLinkUnavailable, err)
	}
	return nil
}
