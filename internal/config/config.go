// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package config defines the engine configuration and its layered loader.
//
// Configuration is resolved from three sources, later layers overriding
// earlier ones:
//
//  1. built-in defaults
//  2. an optional YAML config file
//  3. environment variables
//
// See Load for the environment variable names.
package config

import (
	"fmt"
	"time"

	"github.com/memezing/engine/internal/moderation"
	"github.com/memezing/engine/internal/recommend"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Logging    LoggingConfig     `koanf:"logging"`
	Store      StoreConfig       `koanf:"store"`
	Catalog    CatalogConfig     `koanf:"catalog"`
	Scoring    recommend.Weights `koanf:"scoring"`
	Moderation ModerationConfig  `koanf:"moderation"`
	Events     EventsConfig      `koanf:"events"`
	Security   SecurityConfig    `koanf:"security"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is development or production. Production enforces a
	// configured JWT secret.
	Environment string `koanf:"environment"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig configures the Badger-backed preference store.
type StoreConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs Badger without persistence. Intended for tests and
	// local development.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// CatalogConfig configures the content catalog.
type CatalogConfig struct {
	// Path is the YAML seed file holding the meme template catalog.
	Path string `koanf:"path"`
}

// ModerationConfig configures the moderation evaluator.
type ModerationConfig struct {
	Thresholds moderation.Thresholds `koanf:"thresholds"`
}

// EventsConfig configures the interaction event router.
type EventsConfig struct {
	// RetryCount is the number of redeliveries before an event is parked
	// on the poison queue.
	RetryCount int `koanf:"retry_count"`

	// RetryInterval is the initial backoff between redeliveries.
	RetryInterval time.Duration `koanf:"retry_interval"`

	// PoisonTopic receives events that exhausted their retries.
	PoisonTopic string `koanf:"poison_topic"`

	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout"`

	// BufferSize is the per-topic channel capacity.
	BufferSize int `koanf:"buffer_size"`
}

// SecurityConfig configures authentication and rate limiting.
type SecurityConfig struct {
	// JWTSecret signs admin tokens. Required in production.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the admin token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8073,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path:       "/data/memezing",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		Catalog: CatalogConfig{
			Path: "catalog.yaml",
		},
		Scoring:    recommend.DefaultWeights(),
		Moderation: ModerationConfig{Thresholds: moderation.DefaultThresholds()},
		Events: EventsConfig{
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			PoisonTopic:   "interactions.poison",
			CloseTimeout:  30 * time.Second,
			BufferSize:    256,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			TokenTTL:        24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Moderation.Thresholds.Validate(); err != nil {
		return fmt.Errorf("moderation: %w", err)
	}
	if c.Events.RetryCount < 0 {
		return fmt.Errorf("events.retry_count must be non-negative, got %d", c.Events.RetryCount)
	}
	if c.Events.BufferSize < 1 {
		return fmt.Errorf("events.buffer_size must be at least 1, got %d", c.Events.BufferSize)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}
