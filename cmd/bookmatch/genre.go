// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookmatch/internal/recommend"
)

var (
	genreLimit int
	genreSeed  int64
)

var genreCmd = &cobra.Command{
	Use:   "genre [name]",
	Short: "Browse books of a genre",
	Long: `Samples books whose titles match the genre's keywords. The same --seed
always returns the same books.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenre,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List browsable genres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list := recommend.Genres()
		if outputJSON {
			return printJSON(cmd, list)
		}
		for _, g := range list {
			cmd.Printf("  %-8s %s\n", g.Name, strings.Join(g.Keywords, ", "))
		}
		return nil
	},
}

func init() {
	genreCmd.Flags().IntVarP(&genreLimit, "limit", "n", 10, "number of books to sample")
	genreCmd.Flags().Int64Var(&genreSeed, "seed", 0, "sampling seed")
	rootCmd.AddCommand(genreCmd, genresCmd)
}

func runGenre(cmd *cobra.Command, args []string) error {
	if _, ok := recommend.LookupGenre(args[0]); !ok {
		return unknownGenreError(args[0])
	}

	engine, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	books, err := engine.BrowseGenre(args[0], genreLimit, genreSeed)
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, books)
	}
	if len(books) == 0 {
		cmd.Println("No books found.")
		return nil
	}
	for i := range books {
		cmd.Printf("  [%d] %s - %s\n", i+1, books[i].Title, orUnknown(books[i].Author))
	}
	return nil
}

// unknownGenreError lists the valid names.
func unknownGenreError(name string) error {
	names := make([]string, 0, len(recommend.Genres()))
	for _, g := range recommend.Genres() {
		names = append(names, g.Name)
	}
	return fmt.Errorf("%w: %q (valid: %s)", recommend.ErrUnknownGenre, name, strings.Join(names, ", "))
}
