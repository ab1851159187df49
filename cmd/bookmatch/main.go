// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Command bookmatch answers recommendation queries directly against a
// BX-Books catalog file, without running the server.
//
//	bookmatch similar 0439136350 --catalog BX-Books.csv -n 5
//	bookmatch similar --title "The Hobbit" --json
//	bookmatch genre fantasy --seed 7
//	bookmatch token --user ops --role admin
package main

import (
	"os"
)

func main() {
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
