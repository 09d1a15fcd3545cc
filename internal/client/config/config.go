// Package config handles configuration for the client app: defaults, an
// optional .env file, environment variables, and command-line flags, in that
// order of precedence. Missing required keys are a startup error: the app
// must not run with a half-configured API client.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the Health Rocket app.
//
// Fields:
//   - APIURL / APIKey: endpoint and project key of the backend service.
//   - CachePath: location of the local session token cache database.
//   - LogLevel: debug | info | warn | error.
type Config struct {
	APIURL    string `env:"HEALTHROCKET_API_URL"`
	APIKey    string `env:"HEALTHROCKET_API_KEY"`
	CachePath string `env:"HEALTHROCKET_CACHE_PATH" envDefault:"healthrocket.db"`
	LogLevel  string `env:"HEALTHROCKET_LOG_LEVEL" envDefault:"info"`
}

// Load builds a Config from the environment (overlaying a .env file if one
// exists) and the given command-line arguments.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("app", flag.ContinueOnError)
	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "address of the backend service")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "project API key")
	fs.StringVar(&cfg.CachePath, "f", cfg.CachePath, "path to the local session cache")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.APIURL == "" {
		missing = append(missing, "HEALTHROCKET_API_URL")
	}
	if c.APIKey == "" {
		missing = append(missing, "HEALTHROCKET_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
