// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/bookmatch/internal/catalog"
	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	catalogPath string
	maxItems    int
	stem        bool
	outputJSON  bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "bookmatch",
	Short: "Content-based book recommendations",
	Long: `Finds books similar to a given book by comparing title, author and
publisher with TF-IDF cosine similarity. The catalog is read from a
semicolon-separated BX-Books CSV file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&catalogPath, "catalog", "BX-Books.csv", "path to the BX-Books CSV catalog")
	flags.IntVar(&maxItems, "max-items", catalog.DefaultMaxItems, "index only the first N books (0 = all)")
	flags.BoolVar(&stem, "stem", false, "apply the Snowball English stemmer to terms")
	flags.BoolVar(&outputJSON, "json", false, "output results as JSON")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log index build details to stderr")
}

// loadEngine builds an index over the catalog file.
func loadEngine(ctx context.Context) (*recommend.Engine, error) {
	cfg := recommend.DefaultConfig()
	cfg.Tokenizer.Stemming = stem

	engine, err := recommend.NewEngine(cfg, logging.Component("cli"))
	if err != nil {
		return nil, err
	}

	opts := catalog.DefaultOptions()
	opts.MaxItems = maxItems
	engine.SetCatalogSource(catalog.NewFileSource(catalogPath, opts))

	if _, err := engine.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", catalogPath, err)
	}
	return engine, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
