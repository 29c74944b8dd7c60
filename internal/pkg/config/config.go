package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Groq      GroqConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	UsageWorkers int `env:"USAGE_WORKERS, default=4"`
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, required"`
	JWTAlgorithm string        `env:"JWT_ALGORITHM, default=HS256"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=30m"`
	BcryptCost   int           `env:"BCRYPT_COST,   default=10"`
}

type GroqConfig struct {
	APIKey             string        `env:"GROQ_API_KEY"`
	APIKeyPlaceholder  string        `env:"GROQ_API_KEY_PLACEHOLDER,  default=YOUR_API_KEY_HERE"`
	BaseURL            string        `env:"GROQ_BASE_URL,             default=https://api.groq.com/openai/v1"`
	ChatModel          string        `env:"GROQ_CHAT_MODEL,           default=llama-3.1-8b-instant"`
	TranscriptionModel string        `env:"GROQ_TRANSCRIPTION_MODEL,  default=whisper-large-v3"`
	ProbeTimeout       time.Duration `env:"GROQ_PROBE_TIMEOUT,        default=10s"`
	RequestTimeout     time.Duration `env:"GROQ_REQUEST_TIMEOUT,      default=60s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pulselink"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Requests int64         `env:"RATE_LIMIT_REQUESTS, default=30"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1m"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load for process startup: it panics on invalid configuration.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM must be one of HS256, HS384, HS512, got %q", c.Auth.JWTAlgorithm)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
