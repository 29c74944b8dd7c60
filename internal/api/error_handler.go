package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/api/handler"
	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Adds the bearer challenge to every 401.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders handler.ErrorResponse: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "A user with this email already exists."
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, domain.ErrCredentialsInvalid):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, slow down."
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "AI service is unavailable."
	case errors.Is(err, domain.ErrTranscriptionFailed):
		return http.StatusInternalServerError, "Could not transcribe audio."
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "invalid input"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
