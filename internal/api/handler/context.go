package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pulselink/pulselink-api/internal/api/middleware"
	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// ctxUser returns the user resolved by the Auth middleware. Its absence
// means the route was mounted without Auth, which is reported the same way
// as a bad token.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrCredentialsInvalid
	}
	return user, nil
}
