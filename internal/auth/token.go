// Package auth issues and verifies tab tokens. A tab token is an HS256 JWT
// whose sid claim names the key-value scope of one browser tab.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

const issuerName = "wealth-api"

var (
	ErrMissingToken = errors.New("missing tab token")
	ErrInvalidToken = errors.New("invalid tab token")
)

type Config struct {
	Secret string
	TTL    time.Duration
}

// ConfigFromEnv reads TOKEN_SECRET and TOKEN_TTL (a Go duration, default 24h).
func ConfigFromEnv() Config {
	cfg := Config{Secret: os.Getenv("TOKEN_SECRET"), TTL: 24 * time.Hour}
	if cfg.Secret == "" {
		cfg.Secret = "dev-only-tab-token-secret"
	}
	if v, err := time.ParseDuration(os.Getenv("TOKEN_TTL")); err == nil && v > 0 {
		cfg.TTL = v
	}
	return cfg
}

// Claims carries the tab session id.
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func NewIssuer(cfg Config, clock clockwork.Clock) *Issuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{secret: []byte(cfg.Secret), ttl: cfg.TTL, clock: clock}
}

// NewSessionID returns a fresh tab session id.
func NewSessionID() string { return utilities.NewKSUID() }

// Issue signs a token for sid.
func (i *Issuer) Issue(sid string) (string, error) {
	now := i.clock.Now()
	claims := Claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign tab token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its session id.
func (i *Issuer) Parse(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SID == "" {
		return "", fmt.Errorf("%w: empty sid", ErrInvalidToken)
	}
	return claims.SID, nil
}
