// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Tokenizer controls how composite texts are split into terms.
	Tokenizer TokenizerConfig `koanf:"tokenizer" json:"tokenizer"`

	// Limits contains operational limits.
	Limits LimitsConfig `koanf:"limits" json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `koanf:"cache" json:"cache"`

	// Genre contains genre browsing parameters.
	Genre GenreConfig `koanf:"genre" json:"genre"`

	// RebuildInterval rebuilds the index periodically. 0 disables it.
	RebuildInterval time.Duration `koanf:"rebuild_interval" json:"rebuild_interval"`
}

// TokenizerConfig is the user-facing form of vectorspace.TokenizerConfig.
type TokenizerConfig struct {
	// DefaultStopWords enables the built-in English stop-word list.
	// Default: true
	DefaultStopWords bool `koanf:"default_stop_words" json:"default_stop_words"`

	// StopWords are added to the built-in list (or replace it when
	// DefaultStopWords is false).
	StopWords []string `koanf:"stop_words" json:"stop_words"`

	// MinTokenLength drops shorter tokens. Default: 1
	MinTokenLength int `koanf:"min_token_length" json:"min_token_length"`

	// Stemming applies the Snowball English stemmer. Default: false
	Stemming bool `koanf:"stemming" json:"stemming"`
}

// Resolve returns the tokenizer settings the vector space is built with.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (t TokenizerConfig) Resolve() vectorspace.TokenizerConfig {
	var words []string
	if t.DefaultStopWords {
		words = vectorspace.EnglishStopWords()
	}
	words = append(words, t.StopWords...)

	return vectorspace.TokenizerConfig{
		StopWords:      words,
		MinTokenLength: t.MinTokenLength,
		Stemming:       t.Stemming,
	}
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is used when a request does not name k.
	DefaultK int `koanf:"default_k" json:"default_k"`

	// MaxK caps k.
	MaxK int `koanf:"max_k" json:"max_k"`
}

// CacheConfig controls the similar-books result cache.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled" json:"enabled"`
	Capacity int           `koanf:"capacity" json:"capacity"`
	TTL      time.Duration `koanf:"ttl" json:"ttl"`
}

// GenreConfig controls genre browsing.
type GenreConfig struct {
	// SampleSize is the default number of books returned per genre.
	SampleSize int `koanf:"sample_size" json:"sample_size"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Tokenizer: TokenizerConfig{
			DefaultStopWords: true,
			MinTokenLength:   1,
			Stemming:         false,
		},
		Limits: LimitsConfig{
			DefaultK: 5,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 10000,
			TTL:      5 * time.Minute,
		},
		Genre: GenreConfig{
			SampleSize: 10,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Tokenizer.MinTokenLength < 0 {
		return fmt.Errorf("tokenizer.min_token_length must be non-negative, got %d", c.Tokenizer.MinTokenLength)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	if c.Cache.Enabled {
		if c.Cache.Capacity < 1 {
			return fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}

	if c.Genre.SampleSize < 1 {
		return fmt.Errorf("genre.sample_size must be positive, got %d", c.Genre.SampleSize)
	}
	if c.RebuildInterval < 0 {
		return fmt.Errorf("rebuild_interval must be non-negative, got %v", c.RebuildInterval)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Tokenizer.StopWords = append([]string(nil), c.Tokenizer.StopWords...)
	return &out
}
