// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/bookmatch/internal/recommend"
)

var (
	similarTitle string
	similarLimit int
)

var similarCmd = &cobra.Command{
	Use:   "similar [isbn]",
	Short: "List books similar to a book",
	Long: `Lists the books most similar to the book with the given ISBN, or to the
first book whose title matches --title exactly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarTitle, "title", "", "look the book up by exact title instead of ISBN")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 5, "number of similar books")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0 && similarTitle == "":
		return errors.New("an ISBN argument or --title is required")
	case len(args) == 1 && similarTitle != "":
		return errors.New("give either an ISBN or --title, not both")
	}

	ctx := cmd.Context()
	engine, err := loadEngine(ctx)
	if err != nil {
		return err
	}

	var resp *recommend.Response
	if similarTitle != "" {
		resp, err = engine.RecommendByTitle(ctx, similarTitle, similarLimit)
	} else {
		resp, err = engine.Recommend(ctx, args[0], similarLimit)
	}
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, resp)
	}
	return outputSimilarTable(cmd, resp)
}

func outputSimilarTable(cmd *cobra.Command, resp *recommend.Response) error {
	cmd.Printf("Books similar to %q by %s:\n", resp.Query.Title, orUnknown(resp.Query.Author))
	cmd.Println()
	if len(resp.Items) == 0 {
		cmd.Println("  No similar books found.")
		return nil
	}
	for i, s := range resp.Items {
		cmd.Printf("  [%d] %s - %s (%.4f)\n", i+1, s.Item.Title, orUnknown(s.Item.Author), s.Score)
		cmd.Printf("      ISBN %s, %s\n", s.Item.ID, publication(s.Item))
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func publication(item recommend.Item) string {
	if item.Year > 0 {
		return fmt.Sprintf("%s %d", orUnknown(item.Publisher), item.Year)
	}
	return orUnknown(item.Publisher)
}
