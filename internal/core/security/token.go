package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// TokenIssuer signs and validates stateless session tokens. Nothing is
// stored: validity is decided by signature, algorithm and expiry alone.
// Audience and issuer claims are neither set nor checked.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for one of HS256, HS384 or HS512.
func NewTokenIssuer(secret, algorithm string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: empty signing secret")
	}
	method, ok := supportedAlgorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("token issuer: unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{secret: []byte(secret), method: method, now: time.Now}, nil
}

// WithClock returns a copy of the issuer reading time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *t
	clone.now = now
	return &clone
}

// Algorithm returns the signing algorithm name, e.g. "HS256".
func (t *TokenIssuer) Algorithm() string {
	return t.method.Alg()
}

// Issue signs {sub: subject, iat: now, exp: now+ttl}.
func (t *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("issue token: %w: empty subject", domain.ErrValidation)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: %w: non-positive ttl", domain.ErrValidation)
	}

	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Validate returns the token's subject. Every failure, whatever its cause,
// is reported as domain.ErrCredentialsInvalid.
func (t *TokenIssuer) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrCredentialsInvalid
	}
	if claims.Subject == "" {
		return "", domain.ErrCredentialsInvalid
	}
	return claims.Subject, nil
}
