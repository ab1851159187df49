// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package recommend serves content-based "similar books" queries over a
// catalog held entirely in memory.
//
// # Architecture
//
// Each book is reduced to one document (ComposeFeatures: title, author and
// publisher) and indexed in a TF-IDF vector space (package vectorspace).
// Similarity between two books is the cosine of their vectors. No ratings or
// user history take part in scoring.
//
//   - Index: an immutable pairing of catalog items and their vector space
//   - Engine: the process-wide holder of the current Index
//   - BrowseGenre: keyword genres over titles, sampled reproducibly
//
// # Rebuilds
//
// The engine never rebuilds on its own. Callers (the index service, the CLI,
// the admin API) call Rebuild, which loads the catalog from a CatalogSource,
// reuses a stored snapshot when the catalog fingerprint matches, and swaps
// the new index in atomically. Invalidate drops the index; queries then fail
// with ErrIndexNotReady until the next Rebuild.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	engine.SetCatalogSource(catalog.NewFileSource(path, catalog.DefaultOptions()))
//	if _, err := engine.Rebuild(ctx); err != nil { ... }
//
//	resp, err := engine.Recommend(ctx, "0439136350", 5)
//
// # Thread Safety
//
// Queries read the current index through an atomic pointer and never take a
// lock. Rebuilds are serialized; a rebuild requested while another is running
// fails with ErrRebuildInProgress.
package recommend
