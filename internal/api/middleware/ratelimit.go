package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulselink/pulselink-api/internal/pkg/metrics"
	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// Limiter counts one request for subject and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, operation, subject string) (bool, error)
}

// RateLimit throttles operation per authenticated user. It must run after
// Auth. Limiter errors fail open.
func RateLimit(limiter Limiter, operation string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || limiter == nil {
				return next(c)
			}

			allowed, err := limiter.Allow(c.Request().Context(), operation, user.Email)
			if err != nil {
				log.Warn().Err(err).Str("operation", operation).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(operation).Inc()
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
