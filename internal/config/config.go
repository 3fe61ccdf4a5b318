package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all environment-driven settings, resolved once at startup and
// passed explicitly to the components that need them.
type Config struct {
	AppEnv          string
	Port            string
	APIVersion      string
	DatabaseURL     string
	LogLevel        string
	RateLimitWindow time.Duration
	RateLimitMax    int
	CORSOrigin      string
	RabbitMQURL     string
}

// Load reads configuration from environment variables via Viper, applying
// defaults for everything except DATABASE_URL, which is required.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("API_VERSION", "v1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 900000)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		Port:            v.GetString("APP_PORT"),
		APIVersion:      v.GetString("API_VERSION"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		RateLimitWindow: time.Duration(v.GetInt("RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		CORSOrigin:      v.GetString("CORS_ORIGIN"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("rate limit window and max requests must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
