// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/opsboard/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Opsboard API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret signs short-lived export download links (HS256).
	// It does NOT protect session tokens — those are opaque random values
	// validated against the store, not signatures.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// SessionTTLHours is the session lifetime in hours (default 7 days).
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// ExtraOrigins is a comma-separated list of additional origins allowed
	// by the CORS middleware in production.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
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

	if cfg.SessionTTLHours <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL_HOURS must be positive")
	}

	return cfg, nil
}

// SessionTTL returns the configured session lifetime as a [time.Duration].
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExtraAllowedOrigins returns the parsed EXTRA_ORIGINS entries.
func (c *Config) ExtraAllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
