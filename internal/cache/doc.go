// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package cache provides an in-memory LRU cache with TTL expiration.
//
// The recommendation engine keeps ranked results here keyed by index
// version, query and k. A rebuild or invalidation clears the cache, so a
// stale entry can never outlive the index it was computed from.
//
// Example:
//
//	results := cache.NewLRU[[]recommend.ScoredItem](10000, 5*time.Minute)
//	results.Add("v3|0439136350|5", items)
//	if cached, ok := results.Get("v3|0439136350|5"); ok {
//	    return cached
//	}
package cache
