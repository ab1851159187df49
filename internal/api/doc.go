// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package api serves the Bookmatch HTTP API with the Chi router.

Every response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

# Endpoints

	GET  /api/v1/books/{isbn}/similar?k=      similar books by ISBN
	GET  /api/v1/books/similar?title=&k=      similar books by exact title
	GET  /api/v1/books/{isbn}                 one catalog entry
	GET  /api/v1/books/titles                 distinct titles, catalog order
	GET  /api/v1/books/popular?limit=         ratings chart (503 without ratings)
	GET  /api/v1/genres                       browsable genres
	GET  /api/v1/genres/{genre}/books?n=&seed=
	GET  /api/v1/index/status
	POST /api/v1/index/rebuild                admin
	POST /api/v1/index/invalidate             admin
	GET  /health/live, /health/ready, /metrics

k defaults to recommend.limits.default_k and is clamped to max_k; k <= 0
returns an empty list.

# Middleware

Request IDs and logging context, RealIP, panic recovery, go-chi/cors,
per-IP go-chi/httprate limits, Prometheus request metrics and gzip for JSON
bodies. Admin routes additionally pass through auth.Middleware.
*/
package api
