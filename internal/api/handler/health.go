package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pulselink/pulselink-api/internal/core/service"
)

// HealthHandler handles GET /health: liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// DependencyCheck is a named readiness probe, e.g. a MongoDB or Redis ping.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ProviderStatus reports the AI provider handle state.
type ProviderStatus interface {
	ProviderState() service.ProviderState
}

// HealthDependenciesHandler handles GET /health/ready: readiness probe.
// Storage dependencies gate readiness. The AI provider is reported but does
// not: credential endpoints keep working while it is unavailable.
type HealthDependenciesHandler struct {
	checks   []DependencyCheck
	provider ProviderStatus
}

func NewHealthDependenciesHandler(provider ProviderStatus, checks ...DependencyCheck) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks, provider: provider}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Provider     string                      `json:"ai_provider"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for _, dc := range h.checks {
		if err := dc.Check(ctx); err != nil {
			deps[dc.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[dc.Name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	provider := service.ProviderUninitialized.String()
	if h.provider != nil {
		provider = h.provider.ProviderState().String()
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
		Provider:     provider,
	})
}

// Root handles GET / with a welcome message.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the PulseLinkAI API!",
	})
}
