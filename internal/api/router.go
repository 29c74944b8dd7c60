package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pulselink/pulselink-api/docs"
	"github.com/pulselink/pulselink-api/internal/api/handler"
	"github.com/pulselink/pulselink-api/internal/api/middleware"
	"github.com/pulselink/pulselink-api/internal/core/domain"
	"github.com/pulselink/pulselink-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Auth      ports.AuthService
	Assistant interface {
		ports.AssistantService
		handler.ProviderStatus
	}
	Limiter middleware.Limiter
	Checks  []handler.DependencyCheck
	Log     zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pulselink",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	assistantHandler := handler.NewAssistantHandler(deps.Assistant)
	authMiddleware := middleware.Auth(deps.Auth)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Assistant routes (bearer auth + per-user rate limit) ---
	v1.POST("/chat", assistantHandler.Chat,
		authMiddleware, middleware.RateLimit(deps.Limiter, domain.OperationChat, deps.Log))
	v1.POST("/audio/transcribe", assistantHandler.Transcribe,
		authMiddleware,
		echomiddleware.BodyLimit("26M"),
		middleware.RateLimit(deps.Limiter, domain.OperationTranscribe, deps.Log))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Assistant, deps.Checks...)

	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
