package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the client
type Config struct {
	Environment string `envconfig:"GO_ENV" default:"development"`

	// Remote attendance service
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	APIToken   string        `envconfig:"API_TOKEN"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	// Screens
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Optional; when set the identity token signature is verified
	JWTSecret string `envconfig:"JWT_SECRET"`
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the .env file is usually absent and system variables are used
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("load config: API_TIMEOUT must be positive")
	}
	if cfg.SearchDebounce <= 0 {
		return nil, fmt.Errorf("load config: SEARCH_DEBOUNCE must be positive")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
