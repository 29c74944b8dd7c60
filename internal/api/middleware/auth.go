package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

const userKey = "user"

// Auth resolves the bearer token to a user and stores it in the context.
// Every failure, from a missing header to a deleted account, is reported as
// domain.ErrCredentialsInvalid.
func Auth(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrCredentialsInvalid
			}

			user, err := authService.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
