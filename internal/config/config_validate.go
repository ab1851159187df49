// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package config

import (
	"fmt"
	"net/url"
	"time"
)

// MinJWTSecretLength is the shortest HS256 secret accepted.
const MinJWTSecretLength = 32

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateRatings(); err != nil {
		return err
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if err := c.validateSnapshot(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	switch {
	case c.Catalog.Path == "" && c.Catalog.URL == "":
		return fmt.Errorf("CATALOG_PATH or CATALOG_URL is required")
	case c.Catalog.Path != "" && c.Catalog.URL != "":
		return fmt.Errorf("CATALOG_PATH and CATALOG_URL are mutually exclusive")
	}

	if c.Catalog.URL != "" {
		if err := validateHTTPURL(c.Catalog.URL); err != nil {
			return fmt.Errorf("CATALOG_URL is invalid: %w", err)
		}
		if c.Catalog.Watch {
			return fmt.Errorf("CATALOG_WATCH requires CATALOG_PATH")
		}
	}

	if c.Catalog.MaxItems < 0 {
		return fmt.Errorf("CATALOG_MAX_ITEMS must be non-negative, got %d", c.Catalog.MaxItems)
	}
	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive")
	}
	if c.Catalog.Watch && c.Catalog.WatchDebounce <= 0 {
		return fmt.Errorf("CATALOG_WATCH_DEBOUNCE must be positive when watching")
	}
	if c.Catalog.RebuildBurst < 1 {
		return fmt.Errorf("CATALOG_REBUILD_BURST must be at least 1")
	}
	if c.Catalog.RebuildEvery <= 0 {
		return fmt.Errorf("CATALOG_REBUILD_EVERY must be positive")
	}
	return nil
}

func (c *Config) validateRatings() error {
	if c.Ratings.RatingsPath == "" {
		return nil
	}
	if c.Ratings.MinRatings < 1 {
		return fmt.Errorf("RATINGS_MIN_RATINGS must be at least 1")
	}
	if c.Ratings.Limit < 1 {
		return fmt.Errorf("RATINGS_LIMIT must be at least 1")
	}
	if c.Ratings.Threads < 0 {
		return fmt.Errorf("RATINGS_THREADS must be non-negative")
	}
	return nil
}

func (c *Config) validateSnapshot() error {
	if c.Snapshot.TTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be non-negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, production")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive")
	}

	// Wildcard CORS with bearer tokens lets any site drive the admin API.
	if c.AuthEnabled() && c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production with JWT_SECRET set; " +
			"list the allowed origins explicitly")
	}

	return c.validateRateLimits()
}

func (c *Config) hasWildcardCORS() bool {
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
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL accepts absolute http and https URLs with a host.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is empty")
	}
	return nil
}
