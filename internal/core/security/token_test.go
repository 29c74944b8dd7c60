package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(t *testing.T, secret, alg string, clock *fakeClock) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(secret, alg)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer.WithClock(clock.Now)
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, "secret", "HS256", clock)

	token, err := issuer.Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %q", subject)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, "secret", "HS256", clock)

	token, _ := issuer.Issue("alice@example.com", time.Minute)

	clock.t = clock.t.Add(time.Minute + time.Second)
	if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid after expiry, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestIssuer(t, "secret", "HS256", clock)
	other := newTestIssuer(t, "another-secret", "HS256", clock)

	token, _ := other.Issue("alice@example.com", time.Hour)
	if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherAlgorithm(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestIssuer(t, "secret", "HS256", clock)
	other := newTestIssuer(t, "secret", "HS512", clock)

	token, _ := other.Issue("alice@example.com", time.Hour)
	if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for HS512 token, got %v", err)
	}
}

func TestTokenIssuer_RejectsUnsignedToken(t *testing.T) {
	issuer := newTestIssuer(t, "secret", "HS256", &fakeClock{t: time.Now()})

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for alg=none, got %v", err)
	}
}

func TestTokenIssuer_RejectsMissingClaims(t *testing.T) {
	issuer := newTestIssuer(t, "secret", "HS256", &fakeClock{t: time.Now()})

	cases := map[string]jwt.MapClaims{
		"missing subject": {"exp": time.Now().Add(time.Hour).Unix()},
		"missing expiry":  {"sub": "alice@example.com"},
	}
	for name, claims := range cases {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("%s: sign: %v", name, err)
		}
		if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
			t.Fatalf("%s: expected ErrCredentialsInvalid, got %v", name, err)
		}
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, "secret", "HS256", &fakeClock{t: time.Now()})

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrCredentialsInvalid) {
			t.Fatalf("token %q: expected ErrCredentialsInvalid, got %v", token, err)
		}
	}
}

func TestTokenIssuer_IssueValidation(t *testing.T) {
	issuer := newTestIssuer(t, "secret", "HS256", &fakeClock{t: time.Now()})

	if _, err := issuer.Issue("alice@example.com", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero ttl, got %v", err)
	}
	if _, err := issuer.Issue("", time.Hour); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty subject, got %v", err)
	}
}

func TestNewTokenIssuer_Config(t *testing.T) {
	if _, err := NewTokenIssuer("", "HS256"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenIssuer("secret", "RS256"); err == nil {
		t.Fatalf("expected error for asymmetric algorithm")
	}
	issuer, err := NewTokenIssuer("secret", "HS384")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuer.Algorithm() != "HS384" {
		t.Fatalf("expected HS384, got %s", issuer.Algorithm())
	}
}
