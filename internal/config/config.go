// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file and environment variables.
//   - Errors returned by Load and Validate wrap this package's sentinels.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Host is the interface the HTTP server binds to.
	Host string `koanf:"host"`

	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSAllowedOrigins lists origins allowed by CORS; "*" allows any.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsEnabled exposes /metrics and records Prometheus metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// DocsEnabled serves /openapi.yaml and /api-docs.
	DocsEnabled bool `koanf:"docs_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Host:               "0.0.0.0",
		Port:               3000,
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
		DocsEnabled:        true,
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Host) == "":
		return fmt.Errorf("%w: host must not be empty", ErrInvalidConfig)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be greater than 0", ErrInvalidConfig)
	}
	return nil
}
