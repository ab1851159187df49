// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index Build Metrics
	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "index_build_duration_seconds",
			Help:    "Duration of similarity index builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"origin"}, // "built", "snapshot"
	)

	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_builds_total",
			Help: "Total number of index rebuild attempts",
		},
		[]string{"result"}, // "success", "failure", "busy"
	)

	IndexRebuildRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_rebuild_requests_total",
			Help: "Rebuild requests by trigger and throttling decision",
		},
		[]string{"reason", "decision"}, // decision: "run", "deferred", "coalesced"
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_items",
			Help: "Number of catalog items in the served index",
		},
	)

	IndexTerms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_terms",
			Help: "Vocabulary size of the served index",
		},
	)

	IndexVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_version",
			Help: "Version of the served index (increments on every swap)",
		},
	)

	IndexLastBuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_last_build_timestamp_seconds",
			Help: "Unix timestamp of the last successful index swap",
		},
	)

	IndexInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "index_invalidations_total",
			Help: "Total number of explicit index invalidations",
		},
	)

	// Catalog Metrics
	CatalogRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_total",
			Help: "Catalog rows read by outcome",
		},
		[]string{"outcome"}, // "accepted", "skipped", "duplicate", "truncated"
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of similarity queries",
		},
		[]string{"lookup", "result"}, // lookup: "id", "title"; result: "ok", "not_found", "not_ready", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of similarity queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	// Snapshot Store Metrics
	SnapshotOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_operations_total",
			Help: "Index snapshot store operations",
		},
		[]string{"operation", "result"}, // operation: "load", "save"; result: "hit", "miss", "ok", "error"
	)

	// Popularity Metrics
	PopularityQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "popularity_query_duration_seconds",
			Help:    "Duration of DuckDB popularity aggregations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RatingsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratings_loaded",
			Help: "Number of ratings rows held by the popularity store",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// ErrBusy marks a rebuild that was refused because another one was running.
// Callers wrap their own sentinel with it so RecordIndexBuild can label the outcome.
var ErrBusy = errors.New("busy")

// RecordIndexBuild records the outcome of one rebuild attempt.
func RecordIndexBuild(origin string, duration time.Duration, err error) {
	switch {
	case err == nil:
		IndexBuildsTotal.WithLabelValues("success").Inc()
		IndexBuildDuration.WithLabelValues(origin).Observe(duration.Seconds())
	case errors.Is(err, ErrBusy):
		IndexBuildsTotal.WithLabelValues("busy").Inc()
	default:
		IndexBuildsTotal.WithLabelValues("failure").Inc()
	}
}

// RecordRebuildRequest records how a rebuild request was handled.
func RecordRebuildRequest(reason, decision string) {
	IndexRebuildRequests.WithLabelValues(reason, decision).Inc()
}

// UpdateIndexGauges publishes the shape of the index now being served.
func UpdateIndexGauges(version int64, items, terms int, builtAt time.Time) {
	IndexVersion.Set(float64(version))
	IndexItems.Set(float64(items))
	IndexTerms.Set(float64(terms))
	IndexLastBuildTimestamp.Set(float64(builtAt.Unix()))
}

// ResetIndexGauges zeroes the size gauges after an invalidation.
func ResetIndexGauges() {
	IndexItems.Set(0)
	IndexTerms.Set(0)
	IndexInvalidations.Inc()
}

// RecordCatalogLoad adds catalog row outcomes.
func RecordCatalogLoad(accepted, skipped, duplicates, truncated int) {
	CatalogRowsTotal.WithLabelValues("accepted").Add(float64(accepted))
	CatalogRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
	CatalogRowsTotal.WithLabelValues("duplicate").Add(float64(duplicates))
	CatalogRowsTotal.WithLabelValues("truncated").Add(float64(truncated))
}

// RecordRecommend records a similarity query.
func RecordRecommend(lookup, result string, duration time.Duration) {
	RecommendRequests.WithLabelValues(lookup, result).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordSnapshot records a snapshot store operation.
func RecordSnapshot(operation, result string) {
	SnapshotOperations.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
