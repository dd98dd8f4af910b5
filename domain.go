package goSSO

import (
	"context"
	"fmt"
	"net/url"
)

// Domain check kinds. Carried only for diagnostics; all kinds apply the
// same exact-match rule.
const (
	domainKindOrigin    = "origin"
	domainKindReferer   = "referer"
	domainKindReturnURL = "return_url"
)

// validateDomain checks that rawURL's host is an exact, case-sensitive
// member of the broker's allow-list. The broker record is fetched fresh on
// every call so allow-list edits apply immediately. token is "" for
// return_url checks, which are validated at broker scope only.
func (s *Server) validateDomain(ctx context.Context, kind, rawURL, brokerID, token string) error {
	info, err := s.brokerInfo(ctx, brokerID, token)
	if err != nil {
		return err
	}

	host := hostOf(rawURL)
	if host == "" || !containsDomain(info.Domains, host) {
		s.metricInc(MetricDomainRejected)
		args := []any{"kind", kind, "broker_id", brokerID, "host", host}
		if token != "" {
			args = append(args, "token", token)
		}
		s.logger.Warn("domain not allowed", args...)
		return fmt.Errorf("%w: %s host %q for broker %q", ErrDomainNotAllowed, kind, host, brokerID)
	}

	return nil
}

// hostOf extracts the hostname from a URL, without port or brackets.
// Unparseable input yields "".
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func containsDomain(domains []string, host string) bool {
	for _, d := range domains {
		if d == host {
			return true
		}
	}
	return false
}
