// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/fleetrelay/internal/logging"
)

const (
	minJWTSecretLength = 32

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRelay(); err != nil {
		return err
	}
	if err := c.validateDirectory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.IsProduction() && c.HasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins such as CORS_ORIGINS=https://dispatch.example.org")
	}
	return nil
}

// HasWildcardCORS reports whether any configured origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateRelay() error {
	r := c.Relay
	if r.ReportRate <= 0 {
		return fmt.Errorf("RELAY_REPORT_RATE must be positive")
	}
	if r.ReportBurst < 1 {
		return fmt.Errorf("RELAY_REPORT_BURST must be at least 1")
	}
	if r.MaxInFlight < 1 {
		return fmt.Errorf("RELAY_MAX_IN_FLIGHT must be at least 1")
	}
	if r.SendBuffer < 1 {
		return fmt.Errorf("RELAY_SEND_BUFFER must be at least 1")
	}
	if r.ProcessTimeout <= 0 {
		return fmt.Errorf("RELAY_PROCESS_TIMEOUT must be positive")
	}
	if r.StaleAfter < 0 {
		return fmt.Errorf("RELAY_STALE_AFTER must not be negative")
	}
	if r.StaleAfter > 0 && r.SweepInterval <= 0 {
		return fmt.Errorf("RELAY_SWEEP_INTERVAL must be positive when RELAY_STALE_AFTER is set")
	}
	return nil
}

func (c *Config) validateDirectory() error {
	d := c.Directory
	if !d.InMemory && d.Path == "" {
		return fmt.Errorf("DIRECTORY_PATH is required unless DIRECTORY_IN_MEMORY=true")
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("DIRECTORY_CACHE_SIZE must not be negative")
	}
	if d.CacheSize > 0 && d.CacheTTL <= 0 {
		return fmt.Errorf("DIRECTORY_CACHE_TTL must be positive when the cache is enabled")
	}
	if d.BreakerFailureRatio <= 0 || d.BreakerFailureRatio > 1 {
		return fmt.Errorf("DIRECTORY_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if d.BreakerTimeout <= 0 {
		return fmt.Errorf("DIRECTORY_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.Level == "" || !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns catch secrets copied verbatim from sample configs.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
