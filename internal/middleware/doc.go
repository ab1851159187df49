// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package middleware holds HTTP middleware shared by the API router.

PrometheusMetrics instruments requests with the collectors from the metrics
package:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/books/{isbn}/similar", h.SimilarByISBN)
	})

Endpoints are labelled with their chi route pattern so ISBNs and titles never
become label values. Request IDs, CORS, rate limiting and compression come
from chi and its companion modules and are configured in the api package.
*/
package middleware
