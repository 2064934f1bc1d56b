// Package config loads runtime settings from the environment (optionally seeded
// from a .env file) and holds the domain constants shared across packages.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	AI        AIConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port int    `validate:"min=1,max=65535"`
	Mode string `validate:"oneof=debug release test"`
}

// DatabaseConfig selects the store backend. An empty URL or "memory" keeps
// everything in process memory.
type DatabaseConfig struct {
	URL string
}

// UsesMemory reports whether the in-memory store should be used.
func (d DatabaseConfig) UsesMemory() bool {
	return d.URL == "" || strings.EqualFold(d.URL, "memory")
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"min=0"`
}

// Enabled reports whether chat fan-out should go through Redis Pub/Sub.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type JWTConfig struct {
	Secret string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

// ProviderConfig describes one hosted AI provider. A provider without an API
// key is treated as not configured.
type ProviderConfig struct {
	APIKey  string
	Model   string `validate:"required"`
	BaseURL string `validate:"required,url"`
}

func (p ProviderConfig) Configured() bool { return p.APIKey != "" }

type AIConfig struct {
	Gemini  ProviderConfig
	Groq    ProviderConfig
	// Timeout bounds each provider attempt.
	Timeout time.Duration `validate:"min=1s"`
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=console json"`
}

type RateLimitConfig struct {
	AIPerMinute int `validate:"min=1"`
}

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
)

// Load reads .env (if present) and the process environment into a validated Config.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-lite")
	v.SetDefault("GEMINI_BASE_URL", defaultGeminiBaseURL)
	v.SetDefault("GROQ_API_KEY", "")
	v.SetDefault("GROQ_MODEL", "llama-3.1-8b-instant")
	v.SetDefault("GROQ_BASE_URL", defaultGroqBaseURL)
	v.SetDefault("AI_TIMEOUT", "20s")
	v.SetDefault("AI_RATE_LIMIT", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// A bare number would be read as nanoseconds.
	aiTimeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("AI_TIMEOUT")))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT, expected a duration with a unit such as \"20s\": %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("PORT"),
			Mode: v.GetString("GIN_MODE"),
		},
		Database: DatabaseConfig{URL: v.GetString("DATABASE_URL")},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    TokenTTL,
		},
		AI: AIConfig{
			Gemini: ProviderConfig{
				APIKey:  v.GetString("GOOGLE_API_KEY"),
				Model:   v.GetString("GEMINI_MODEL"),
				BaseURL: strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
			},
			Groq: ProviderConfig{
				APIKey:  v.GetString("GROQ_API_KEY"),
				Model:   v.GetString("GROQ_MODEL"),
				BaseURL: strings.TrimRight(v.GetString("GROQ_BASE_URL"), "/"),
			},
			Timeout: aiTimeout,
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		RateLimit: RateLimitConfig{AIPerMinute: v.GetInt("AI_RATE_LIMIT")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the release-mode secret policy.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	return nil
}
