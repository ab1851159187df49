// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/bookmatch/internal/catalog"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
	"github.com/tomtom215/bookmatch/internal/snapshot"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in defaults for every setting
//  2. Config File: optional config.yaml
//  3. Environment Variables: override any mapped setting
//
// Config is immutable after loading and safe for concurrent reads.
type Config struct {
	Catalog   CatalogConfig     `koanf:"catalog"`
	Ratings   popularity.Config `koanf:"ratings"`
	Recommend recommend.Config  `koanf:"recommend"`
	Snapshot  snapshot.Config   `koanf:"snapshot"`
	Server    ServerConfig      `koanf:"server"`
	Security  SecurityConfig    `koanf:"security"`
	Logging   LoggingConfig     `koanf:"logging"`
}

// CatalogConfig describes where the book catalog comes from. Exactly one of
// Path and URL must be set.
type CatalogConfig struct {
	// Path is a local BX-Books CSV file.
	Path string `koanf:"path"`

	// URL fetches the catalog over HTTP instead.
	URL string `koanf:"url"`

	// MaxItems keeps the first N books. 0 means unlimited.
	MaxItems int `koanf:"max_items"`

	// Latin1 decodes the file as ISO-8859-1, as the public dump is encoded.
	Latin1 bool `koanf:"latin1"`

	// FetchTimeout bounds a remote download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// Watch rebuilds the index when the catalog file changes.
	Watch bool `koanf:"watch"`

	// WatchDebounce coalesces bursts of file events.
	WatchDebounce time.Duration `koanf:"watch_debounce"`

	// RebuildBurst and RebuildEvery throttle explicit and watcher-triggered
	// rebuilds with a token bucket.
	RebuildBurst int           `koanf:"rebuild_burst"`
	RebuildEvery time.Duration `koanf:"rebuild_every"`
}

// Options converts the catalog settings to parser options.
func (c *CatalogConfig) Options() catalog.Options {
	return catalog.Options{MaxItems: c.MaxItems, Latin1: c.Latin1}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns host:port for http.Server.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds admin authentication, CORS and rate limiting.
type SecurityConfig struct {
	// JWTSecret enables HS256 bearer authentication on the index admin
	// endpoints. Empty leaves them open.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the lifetime of tokens minted by `bookmatch token`.
	TokenTTL time.Duration `koanf:"token_ttl"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// AuthEnabled reports whether the admin endpoints require a token.
func (c *Config) AuthEnabled() bool {
	return c.Security.JWTSecret != ""
}

// String summarizes the configuration without secrets.
func (c *Config) String() string {
	source := c.Catalog.Path
	if c.Catalog.URL != "" {
		source = c.Catalog.URL
	}
	return fmt.Sprintf("catalog=%s max_items=%d addr=%s auth=%t snapshot=%t ratings=%t",
		source, c.Catalog.MaxItems, c.Server.Addr(), c.AuthEnabled(),
		c.Snapshot.Enabled(), c.Ratings.RatingsPath != "")
}
