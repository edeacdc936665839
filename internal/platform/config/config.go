// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (gateway, session store) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Client Pulse session service.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BackendBaseURL is the Pulse REST backend this service fronts.
	// The default matches the backend's standard local deployment.
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:5000/api"`

	// Key-Value state repository (Redis). When empty, browser state is kept
	// in process memory and is lost on restart.
	RedisURL string `env:"REDIS_URL"`

	// SessionTTL bounds how long an idle browser session survives in the
	// state repository.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// ExtraOrigins lists additional CORS origins allowed in production,
	// comma separated.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins granted beyond the
// first-party domain.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
