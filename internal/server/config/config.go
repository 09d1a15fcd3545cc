// Package config handles configuration for the server component: defaults,
// an optional .env file, and environment variables. Missing required keys are
// a startup error.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the Health Rocket backend.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - JWTSecret: HMAC secret for signing access tokens (HS256).
//   - APIKey: project key every client request must carry.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
type Config struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	JWTSecret       string        `env:"JWT_SECRET"`
	APIKey          string        `env:"API_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load builds a Config from the environment, overlaying a .env file if one
// exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
