package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	ProdOrigins     []string      `env:"PROD_ORIGINS" envSeparator:","`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBDSN           string        `env:"DB_DSN" envDefault:"reservations.db"`
	Timezone        string        `env:"TIMEZONE" envDefault:"Local"`
	SeedDemoData    bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Derived after parsing
	IsProduction bool           `env:"-"`
	Location     *time.Location `env:"-"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}
	return Parse()
}

// Parse reads the process environment into a Config without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}
