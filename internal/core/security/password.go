// Package security holds the credential primitives: bcrypt password digests
// and signed, time-limited session tokens.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// maxSecretBytes is the longest secret bcrypt takes into account.
const maxSecretBytes = 72

// PasswordHasher produces salted bcrypt digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a digest with an embedded random salt, so hashing the same
// secret twice yields different digests.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("hash password: %w: secret exceeds 72 bytes", domain.ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret produced digest. A digest that is not a
// well-formed bcrypt hash yields an error wrapping domain.ErrValidation
// instead of false. Secrets longer than maxSecretBytes never match, since
// Hash refuses them; the comparison still runs so timing does not change.
func (h *PasswordHasher) Verify(secret, digest string) (bool, error) {
	oversized := len(secret) > maxSecretBytes
	if oversized {
		secret = secret[:maxSecretBytes]
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	switch {
	case err == nil:
		return !oversized, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w: %v", domain.ErrValidation, err)
	}
}
