// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package vectorspace

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// TokenizerConfig controls how documents are split into terms.
type TokenizerConfig struct {
	// StopWords are dropped after lowercasing. Matching is exact.
	StopWords []string `json:"stop_words"`

	// MinTokenLength is the minimum token length in runes.
	// Default: 1
	MinTokenLength int `json:"min_token_length"`

	// Stemming reduces each surviving token with the Snowball English stemmer.
	// Default: false
	Stemming bool `json:"stemming"`
}

// DefaultTokenizerConfig returns the English stop-word list with no length
// filter beyond dropping empty tokens and stemming disabled.
func DefaultTokenizerConfig() TokenizerConfig {
	return TokenizerConfig{
		StopWords:      EnglishStopWords(),
		MinTokenLength: 1,
		Stemming:       false,
	}
}

// Signature renders the configuration as a canonical string. Two configs with
// the same signature tokenize every input identically.
func (c TokenizerConfig) Signature() string {
	words := normalizeStopWords(c.StopWords)
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("min=")
	b.WriteString(strconv.Itoa(effectiveMinLength(c.MinTokenLength)))
	b.WriteString(";stem=")
	b.WriteString(strconv.FormatBool(c.Stemming))
	b.WriteString(";stop=")
	b.WriteString(strings.Join(sorted, ","))
	return b.String()
}

// Tokenizer turns text into normalized terms. It holds no mutable state and
// is safe for concurrent use.
type Tokenizer struct {
	config    TokenizerConfig
	stopWords map[string]struct{}
	minLength int
	stem      bool
}

// NewTokenizer creates a tokenizer for the given configuration.
func NewTokenizer(cfg TokenizerConfig) *Tokenizer {
	return &Tokenizer{
		config:    cfg,
		stopWords: normalizeStopWords(cfg.StopWords),
		minLength: effectiveMinLength(cfg.MinTokenLength),
		stem:      cfg.Stemming,
	}
}

// Config returns the configuration the tokenizer was built with.
func (t *Tokenizer) Config() TokenizerConfig {
	return t.config
}

// Tokenize lowercases text, splits it on every rune that is neither a letter
// nor a digit and filters the pieces. The result only depends on text.
func (t *Tokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	tokens := make([]string, 0, len(fields))

	for _, field := range fields {
		if _, stop := t.stopWords[field]; stop {
			continue
		}
		if t.stem {
			field = stemEnglish(field)
		}
		if field == "" || utf8.RuneCountInString(field) < t.minLength {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// stemEnglish falls back to the unstemmed word when the stemmer rejects it.
func stemEnglish(word string) string {
	stemmed, err := snowball.Stem(word, "english", false)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

func normalizeStopWords(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func effectiveMinLength(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
