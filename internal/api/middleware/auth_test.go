package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

type stubAuthService struct {
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentUserFn(ctx, token)
}

func acceptToken(valid string, user *domain.User) *stubAuthService {
	return &stubAuthService{
		currentUserFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != valid {
				return nil, domain.ErrCredentialsInvalid
			}
			return user, nil
		},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	alice := &domain.User{ID: "u1", Email: "alice@example.com"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(acceptToken("good-token", alice))(func(c echo.Context) error {
		called = true
		user, ok := CurrentUser(c)
		if !ok {
			t.Fatalf("user not set")
		}
		if user.Email != "alice@example.com" {
			t.Fatalf("unexpected user: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(acceptToken("good-token", &domain.User{Email: "a@example.com"}))(func(c echo.Context) error {
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic Zm9vOmJhcg=="},
		{"empty token", "Bearer   "},
		{"no separator", "Bearergood-token"},
		{"unknown token", "Bearer forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(acceptToken("good-token", &domain.User{}))(func(c echo.Context) error {
				t.Fatalf("next should not be called")
				return nil
			})

			err := handler(c)
			if !errors.Is(err, domain.ErrCredentialsInvalid) {
				t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
			}
		})
	}
}

func TestCurrentUser_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("expected no user")
	}
}
