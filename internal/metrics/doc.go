// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
served at /metrics:

	curl http://localhost:8088/metrics

# Available Metrics

Index Metrics:
  - index_build_duration_seconds: Rebuild time (histogram), labels: origin
  - index_builds_total: Rebuild attempts (counter), labels: result
  - index_items, index_terms, index_version: Shape of the served index (gauges)
  - index_last_build_timestamp_seconds: Last successful swap (gauge)
  - index_invalidations_total: Explicit invalidations (counter)

Catalog Metrics:
  - catalog_rows_total: Rows read by outcome (counter), labels: outcome

Recommendation Metrics:
  - recommend_requests_total: Similarity queries (counter), labels: lookup, result
  - recommend_duration_seconds: Query latency (histogram)
  - recommend_cache_hits_total, recommend_cache_misses_total: Result cache (counters)

Storage Metrics:
  - snapshot_operations_total: Badger snapshot store (counter), labels: operation, result
  - popularity_query_duration_seconds: DuckDB aggregation time (histogram)
  - ratings_loaded: Ratings rows in DuckDB (gauge)

HTTP Metrics:
  - api_requests_total: Requests (counter), labels: method, endpoint, status_code
  - api_request_duration_seconds: Latency (histogram), labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge), labels: name
  - circuit_breaker_requests_total: labels: name, result
  - circuit_breaker_state_transitions_total: labels: name, from_state, to_state
*/
package metrics
