// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package popularity ranks books by their Book-Crossing ratings using an
// embedded DuckDB database.
//
// It answers a single question, "which well-rated books have enough ratings
// to trust", and is kept apart from package recommend: ratings never feed
// into similarity scores.
//
//	store, err := popularity.Open(ctx, cfg)
//	err = store.LoadRatingsFile(ctx, "BX-Book-Ratings.csv")
//	err = store.SetCatalog(ctx, items)
//	top, err := store.Top(ctx, 50, 50)
package popularity
