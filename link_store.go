package goSSO

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSSO/cache"
)

// CacheKey is the deterministic link-store key for one broker token:
// SSO-{brokerID}-{token}. Every node that computes the key for the same
// pair reads and writes the same entry.
func CacheKey(brokerID, token string) string {
	return "SSO-" + brokerID + "-" + token
}

// linkStore maps broker tokens to session ids through the injected cache.
// It owns key derivation and failure wrapping; per-key atomicity is the
// backend's contract.
type linkStore struct {
	cache cache.Cache
}

// Get returns the session id linked to a broker token. found is false on a
// plain miss; any backend failure comes back wrapped in ErrLinkUnavailable.
func (l *linkStore) Get(ctx context.Context, brokerID, token string) (string, bool, error) {
	sessionID, err := l.cache.Get(ctx, CacheKey(brokerID, token))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrLinkUnavailable, err)
	}
	return sessionID, true, nil
}

// Set binds a broker token to a session id, overwriting any previous
// binding. A rejected or failed write comes back as ErrLinkUnavailable.
func (l *linkStore) Set(ctx context.Context, brokerID, token, sessionID string) error {
	stored, err := l.cache.Set(ctx, CacheKey(brokerID, token), sessionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLinkUnavailable, err)
	}
	if !stored {
		return fmt.Errorf("%w: write rejected by backend", ErrLinkUnavailable)
	}
	return nil
}
