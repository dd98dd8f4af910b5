package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieConfig defines the signed session cookie.
type CookieConfig struct {
	// Name is the cookie name. Defaults to "sso_session".
	Name string

	// Secret keys the HS256 signature over the cookie payload. Required.
	Secret []byte

	// TTL bounds how long an issued cookie is accepted. Defaults to 24h.
	TTL time.Duration

	// Secure marks issued cookies https-only.
	Secure bool

	// SameSite sets the cookie SameSite attribute. Defaults to Lax so the
	// cookie still travels on top-level navigation from a broker page.
	SameSite http.SameSite
}

// cookieClaims is the signed cookie payload.
type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer validates a cookie configuration once, then mints per-request
// cookie lifecycles.
type Issuer struct {
	config CookieConfig
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg CookieConfig) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("cookie secret required")
	}
	if cfg.Name == "" {
		cfg.Name = "sso_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &Issuer{config: cfg}, nil
}

// Lifecycle returns the cookie lifecycle for one request. When the request
// carries a valid session cookie, the lifecycle starts out active with
// that session id.
func (i *Issuer) Lifecycle(w http.ResponseWriter, r *http.Request) *Cookie {
	c := &Cookie{issuer: i, w: w}
	if id, ok := i.restore(r); ok {
		c.id = id
		c.active = true
	}
	return c
}

// Cookie is a Lifecycle persisted as an HMAC-signed cookie on the HTTP
// response.
type Cookie struct {
	issuer *Issuer
	w      http.ResponseWriter
	id     string
	active bool
}

// Active implements Lifecycle.
func (c *Cookie) Active() bool {
	return c.active
}

// Start implements Lifecycle. It signs the session id and writes the
// cookie to the response.
func (c *Cookie) Start(_ context.Context, id string) error {
	if id == "" {
		id = uuid.NewString()
	}

	signed, err := c.issuer.sign(id)
	if err != nil {
		return err
	}

	http.SetCookie(c.w, &http.Cookie{
		Name:     c.issuer.config.Name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.issuer.config.TTL / time.Second),
		HttpOnly: true,
		Secure:   c.issuer.config.Secure,
		SameSite: c.issuer.config.SameSite,
	})

	c.id = id
	c.active = true
	return nil
}

// ID implements Lifecycle.
func (c *Cookie) ID() string {
	return c.id
}

func (i *Issuer) sign(id string) (string, error) {
	now := time.Now()
	claims := cookieClaims{
		SID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.config.Secret)
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// restore recovers the session id from a previously issued cookie.
// Missing, expired, tampered, or foreign-keyed cookies count as no
// session.
func (i *Issuer) restore(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(i.config.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &cookieClaims{}
	token, err := parser.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return i.config.Secret, nil
	})
	if err != nil || !token.Valid || claims.SID == "" {
		return "", false
	}
	return claims.SID, nil
}
