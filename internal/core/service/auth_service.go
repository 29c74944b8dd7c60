package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/pkg/metrics"
	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
	"github.com/pulselink/pulselink-api/internal/core/security"
)

const defaultTokenTTL = 30 * time.Minute

// timingDummy is hashed once per service so that logins for unknown emails
// still pay for a bcrypt comparison.
const timingDummy = "pulselink-unknown-account"

// AuthService implements registration, login and bearer-token resolution.
type AuthService struct {
	repo     ports.AuthRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenIssuer
	tokenTTL time.Duration
	dummy    string
	log      zerolog.Logger
}

func NewAuthService(
	repo ports.AuthRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenIssuer,
	tokenTTL time.Duration,
	log zerolog.Logger,
) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	dummy, err := hasher.Hash(timingDummy)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		dummy:    dummy,
		log:      log,
	}, nil
}

// Register creates a user unless the email is already taken (exact match).
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("register: %w: email and password are required", domain.ErrValidation)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		metrics.AuthOutcomesTotal.WithLabelValues("register", "duplicate").Inc()
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthOutcomesTotal.WithLabelValues("register", "duplicate").Inc()
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthOutcomesTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login returns a session token. Unknown email and wrong password both yield
// domain.ErrAuthenticationFailed and cost one bcrypt comparison each.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("login: %w", err)
	}

	digest := s.dummy
	if user != nil {
		digest = user.PasswordHash
	}

	ok, verr := s.hasher.Verify(password, digest)
	if verr != nil {
		s.log.Error().Err(verr).Msg("stored password digest is malformed")
	}
	if user == nil || !ok {
		metrics.AuthOutcomesTotal.WithLabelValues("login", "failed").Inc()
		return "", domain.ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.AuthOutcomesTotal.WithLabelValues("login", "ok").Inc()
	return token, nil
}

// CurrentUser resolves a bearer token to its user. An invalid token and a
// subject that no longer exists both yield domain.ErrCredentialsInvalid.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.tokens.Validate(token)
	if err != nil {
		metrics.AuthOutcomesTotal.WithLabelValues("resolve", "invalid").Inc()
		return nil, domain.ErrCredentialsInvalid
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthOutcomesTotal.WithLabelValues("resolve", "invalid").Inc()
			return nil, domain.ErrCredentialsInvalid
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
