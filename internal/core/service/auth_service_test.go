package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/security"
)

type stubAuthRepo struct {
	users     map[string]*domain.User
	creates   int
	findErr   error
	createErr error
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.creates++
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestAuthService(t *testing.T, repo *stubAuthRepo, clock *testClock) *AuthService {
	t.Helper()
	tokens, err := security.NewTokenIssuer("secret", "HS256")
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	if clock != nil {
		tokens = tokens.WithClock(clock.Now)
	}
	svc, err := NewAuthService(repo, security.NewPasswordHasher(bcrypt.MinCost), tokens, time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	user, err := svc.Register(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected created user with id, got %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t, newStubAuthRepo(), nil)

	if _, err := svc.Register(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	if _, err := svc.Register(context.Background(), "bob@example.com", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one stored user, got %d", repo.creates)
	}
}

func TestAuthService_Register_EmailIsCaseSensitive(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass")
	if _, err := svc.Register(context.Background(), "Bob@example.com", "pass"); err != nil {
		t.Fatalf("expected differently cased email to register, got %v", err)
	}
}

func TestAuthService_Register_RaceOnCreate(t *testing.T) {
	repo := newStubAuthRepo()
	repo.createErr = domain.ErrUserExists
	svc := newTestAuthService(t, repo, nil)

	if _, err := svc.Register(context.Background(), "eve@example.com", "pass"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists from store conflict, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	if _, err := svc.Register(context.Background(), "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	subject, err := svc.tokens.Validate(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if subject != "carol@example.com" {
		t.Fatalf("expected subject carol@example.com, got %q", subject)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass")

	_, wrongPassword := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if wrongPassword != domain.ErrAuthenticationFailed {
		t.Fatalf("expected ErrAuthenticationFailed for wrong password, got %v", wrongPassword)
	}
	if unknownEmail != domain.ErrAuthenticationFailed {
		t.Fatalf("expected ErrAuthenticationFailed for unknown email, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Login_RejectsPasswordExtendedPast72Bytes(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	password := strings.Repeat("p", 72)
	if _, err := svc.Register(context.Background(), "gina@example.com", password); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "gina@example.com", password+"-not-my-password")
	if err != domain.ErrAuthenticationFailed {
		t.Fatalf("expected ErrAuthenticationFailed, got token=%q err=%v", token, err)
	}
	if _, err := svc.Login(context.Background(), "gina@example.com", password); err != nil {
		t.Fatalf("exact password must still log in: %v", err)
	}
}

func TestAuthService_Login_MalformedStoredDigest(t *testing.T) {
	repo := newStubAuthRepo()
	repo.users["frank@example.com"] = &domain.User{ID: "1", Email: "frank@example.com", PasswordHash: "garbage"}
	svc := newTestAuthService(t, repo, nil)

	if _, err := svc.Login(context.Background(), "frank@example.com", "whatever"); err != domain.ErrAuthenticationFailed {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubAuthRepo()
	repo.findErr = errors.New("connection reset")
	svc := newTestAuthService(t, repo, nil)

	_, err := svc.Login(context.Background(), "a@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	_, _ = svc.Register(context.Background(), "gina@example.com", "pw")
	token, err := svc.Login(context.Background(), "gina@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.Email != "gina@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_CurrentUser_Expired(t *testing.T) {
	repo := newStubAuthRepo()
	clock := &testClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestAuthService(t, repo, clock)

	_, _ = svc.Register(context.Background(), "hank@example.com", "pw")
	token, err := svc.Login(context.Background(), "hank@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	clock.t = clock.t.Add(2 * time.Hour)
	if _, err := svc.CurrentUser(context.Background(), token); err != domain.ErrCredentialsInvalid {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestAuthService_CurrentUser_DeletedAccount(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo, nil)

	_, _ = svc.Register(context.Background(), "ivy@example.com", "pw")
	token, _ := svc.Login(context.Background(), "ivy@example.com", "pw")
	delete(repo.users, "ivy@example.com")

	_, deleted := svc.CurrentUser(context.Background(), token)
	_, garbage := svc.CurrentUser(context.Background(), "not-a-token")

	if deleted != domain.ErrCredentialsInvalid || garbage != domain.ErrCredentialsInvalid {
		t.Fatalf("expected ErrCredentialsInvalid for both, got %v and %v", deleted, garbage)
	}
}
