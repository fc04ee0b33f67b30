// Package config reads formkit CLI and server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment variable.
const Prefix = "FORMKIT_"

// Config is the application configuration.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Schemas SchemasConfig
	Render  RenderConfig
	Client  ClientConfig
}

// ServerConfig configures the HTTP render service.
type ServerConfig struct {
	Addr            string        `env:"ADDR"             envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"   envDefault:"1048576"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level     string `env:"LOG_LEVEL"      envDefault:"info"` // debug, info, warn, error
	Format    string `env:"LOG_FORMAT"     envDefault:"text"` // text, json
	AddSource bool   `env:"LOG_ADD_SOURCE" envDefault:"false"`
}

// SchemasConfig configures where named schemas are loaded from.
type SchemasConfig struct {
	Dir      string        `env:"SCHEMA_DIR"`
	CacheTTL time.Duration `env:"SCHEMA_CACHE_TTL" envDefault:"5m"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Renderer string `env:"RENDERER" envDefault:"vanilla"`
	Columns  int    `env:"COLUMNS"  envDefault:"1"`
	Language string `env:"LANGUAGE" envDefault:"en"`
	Country  string `env:"COUNTRY"`
	Currency string `env:"CURRENCY"`
}

// ClientConfig configures outbound hypermedia requests.
type ClientConfig struct {
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return LoadWithEnvironment(nil)
}

// LoadWithEnvironment parses environment instead of the process environment
// when it is non-nil. Keys carry the FORMKIT_ prefix.
func LoadWithEnvironment(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	options := env.Options{Prefix: Prefix}
	if environment != nil {
		options.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Logging.Format)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server address is required")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive: %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Render.Columns < 1 {
		return fmt.Errorf("columns must be at least 1: %d", cfg.Render.Columns)
	}
	if cfg.Client.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative: %s", cfg.Client.Timeout)
	}
	return nil
}
