// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package config

import "time"

// Config holds the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Relay     RelayConfig     `koanf:"relay"`
	Directory DirectoryConfig `koanf:"directory"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds token and HTTP protection settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RelayConfig controls the per-connection report pipeline.
type RelayConfig struct {
	// ReportRate is the sustained number of reports per second a single
	// connection may submit. ReportBurst is the token bucket size.
	ReportRate  float64 `koanf:"report_rate"`
	ReportBurst int     `koanf:"report_burst"`

	// MaxInFlight caps how many reports from one connection may be inside
	// the pipeline at once. Reports beyond the cap are rejected as overloaded.
	MaxInFlight int `koanf:"max_in_flight"`

	// StaleAfter removes location records not refreshed within this age.
	// Zero keeps records until shutdown.
	StaleAfter    time.Duration `koanf:"stale_after"`
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// SendBuffer is the outbound queue length per connection. An observer
	// whose queue is full is dropped.
	SendBuffer int `koanf:"send_buffer"`

	// ProcessTimeout bounds a single report's verify + lookup work.
	ProcessTimeout time.Duration `koanf:"process_timeout"`
}

// DirectoryConfig holds driver directory storage settings.
type DirectoryConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// Circuit breaker around directory lookups.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file:line in each entry.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
