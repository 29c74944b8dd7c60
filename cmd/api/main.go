// Command api runs the PulseLinkAI HTTP service.
//
//	@title						PulseLinkAI API
//	@version					1.0
//	@description				Credential service and AI assistant gateway.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulselink/pulselink-api/internal/api"
	"github.com/pulselink/pulselink-api/internal/api/handler"
	"github.com/pulselink/pulselink-api/internal/core/ports"
	"github.com/pulselink/pulselink-api/internal/core/security"
	"github.com/pulselink/pulselink-api/internal/core/service"
	"github.com/pulselink/pulselink-api/internal/infrastructure/db/mongo"
	"github.com/pulselink/pulselink-api/internal/infrastructure/db/redis"
	"github.com/pulselink/pulselink-api/internal/infrastructure/provider"
	"github.com/pulselink/pulselink-api/internal/infrastructure/queue"
	"github.com/pulselink/pulselink-api/internal/pkg/config"
	"github.com/pulselink/pulselink-api/pkg/logger"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "pulselink-api",
		Version: version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// --- Credentials ---
	tokens, err := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}
	authService, err := service.NewAuthService(
		mongo.NewAuthRepository(db),
		security.NewPasswordHasher(cfg.Auth.BcryptCost),
		tokens,
		cfg.Auth.TokenTTL,
		logger.Component("auth"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth service")
	}

	// --- Usage audit ---
	usageCtx, stopUsage := context.WithCancel(context.Background())
	usage := queue.NewUsageDispatcher(cfg.UsageWorkers, mongo.NewUsageRepository(db), logger.Component("usage"))
	usage.Start(usageCtx)

	// --- AI provider ---
	groqCfg := provider.Config{
		BaseURL:            cfg.Groq.BaseURL,
		ChatModel:          cfg.Groq.ChatModel,
		TranscriptionModel: cfg.Groq.TranscriptionModel,
		ProbeTimeout:       cfg.Groq.ProbeTimeout,
		RequestTimeout:     cfg.Groq.RequestTimeout,
	}
	handle := service.InitProvider(ctx,
		service.ProviderCredential{APIKey: cfg.Groq.APIKey, Placeholder: cfg.Groq.APIKeyPlaceholder},
		func(apiKey string) (ports.AIProvider, error) {
			return provider.NewGroqClient(apiKey, groqCfg)
		},
		logger.Component("provider"),
	)
	assistant := service.NewAssistantService(handle, usage, logger.Component("assistant"))

	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Assistant: assistant,
		Limiter:   redis.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Check: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Log: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("ai_provider", handle.State().String()).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopUsage()
	usage.Wait()

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mongodb disconnect")
	}

	log.Info().Msg("server stopped")
}
