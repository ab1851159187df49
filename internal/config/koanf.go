// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/bookmatch/internal/catalog"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookmatch/config.yaml",
	"/etc/bookmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:          "",
			URL:           "",
			MaxItems:      catalog.DefaultMaxItems,
			Latin1:        true,
			FetchTimeout:  60 * time.Second,
			Watch:         false,
			WatchDebounce: 2 * time.Second,
			RebuildBurst:  1,
			RebuildEvery:  30 * time.Second,
		},
		Ratings:   popularity.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// CATALOG_PATH -> catalog.path
	// RECOMMEND_MAX_K -> recommend.limits.max_k
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the config file to load, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigFile returns the path Load would read, or "".
func ConfigFile() string {
	return findConfigFile()
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"recommend.tokenizer.stop_words",
	"security.cors_origins",
}

// processSliceFields converts comma-separated env strings to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			// Unset, or already a slice from YAML
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Catalog
	"catalog_path":           "catalog.path",
	"catalog_url":            "catalog.url",
	"catalog_max_items":      "catalog.max_items",
	"catalog_latin1":         "catalog.latin1",
	"catalog_fetch_timeout":  "catalog.fetch_timeout",
	"catalog_watch":          "catalog.watch",
	"catalog_watch_debounce": "catalog.watch_debounce",
	"catalog_rebuild_burst":  "catalog.rebuild_burst",
	"catalog_rebuild_every":  "catalog.rebuild_every",

	// Ratings
	"ratings_path":        "ratings.ratings_path",
	"ratings_min_ratings": "ratings.min_ratings",
	"ratings_limit":       "ratings.limit",
	"ratings_threads":     "ratings.threads",

	// Recommendation engine
	"recommend_default_stop_words": "recommend.tokenizer.default_stop_words",
	"recommend_stop_words":         "recommend.tokenizer.stop_words",
	"recommend_min_token_length":   "recommend.tokenizer.min_token_length",
	"recommend_stemming":           "recommend.tokenizer.stemming",
	"recommend_default_k":          "recommend.limits.default_k",
	"recommend_max_k":              "recommend.limits.max_k",
	"recommend_cache_enabled":      "recommend.cache.enabled",
	"recommend_cache_capacity":     "recommend.cache.capacity",
	"recommend_cache_ttl":          "recommend.cache.ttl",
	"recommend_genre_sample_size":  "recommend.genre.sample_size",
	"recommend_rebuild_interval":   "recommend.rebuild_interval",

	// Snapshot store
	"snapshot_path":        "snapshot.path",
	"snapshot_in_memory":   "snapshot.in_memory",
	"snapshot_ttl":         "snapshot.ttl",
	"snapshot_sync_writes": "snapshot.sync_writes",

	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_token_ttl":       "security.token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
// It returns "" for variables that should be skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever path changes. The caller is
// responsible for reloading and swapping configuration safely.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
