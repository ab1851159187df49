// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/bookmatch/internal/config"
	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/snapshot"
)

// initSnapshotStore opens the Badger snapshot store, or returns nil when
// snapshot.path is empty.
func initSnapshotStore(cfg *config.Config) (*snapshot.Store, error) {
	if !cfg.Snapshot.Enabled() {
		logging.Info().Msg("Index snapshots disabled (SNAPSHOT_PATH not set)")
		return nil, nil
	}

	store, err := snapshot.Open(&cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("path", cfg.Snapshot.Path).
		Bool("in_memory", cfg.Snapshot.InMemory).
		Dur("ttl", cfg.Snapshot.TTL).
		Msg("Index snapshot store opened")
	return store, nil
}

// initPopularity opens the DuckDB ratings store and loads the ratings file,
// or returns nil when ratings.ratings_path is empty. The books table is
// reloaded from the untruncated catalog after each index rebuild.
func initPopularity(ctx context.Context, cfg *config.Config) (*popularity.Store, error) {
	if cfg.Ratings.RatingsPath == "" {
		logging.Info().Msg("Popularity chart disabled (RATINGS_PATH not set)")
		return nil, nil
	}

	store, err := popularity.Open(ctx, cfg.Ratings)
	if err != nil {
		return nil, err
	}
	if err := store.LoadRatingsFile(ctx, cfg.Ratings.RatingsPath); err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing popularity store")
		}
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	logging.Info().
		Str("path", cfg.Ratings.RatingsPath).
		Int("ratings", store.Loaded()).
		Int("min_ratings", cfg.Ratings.MinRatings).
		Msg("Popularity store loaded")
	return store, nil
}
