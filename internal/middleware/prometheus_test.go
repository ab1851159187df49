// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/bookmatch/internal/metrics"
)

func TestPrometheusMetrics_RoutePatternLabel(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/test-books/{isbn}/similar", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/test-books/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok := metrics.APIRequestsTotal.WithLabelValues("GET", "/test-books/{isbn}/similar", "200")
	notFound := metrics.APIRequestsTotal.WithLabelValues("GET", "/test-books/missing", "404")
	okBefore := testutil.ToFloat64(ok)
	notFoundBefore := testutil.ToFloat64(notFound)

	for _, path := range []string{"/test-books/0439136350/similar", "/test-books/0195153448/similar", "/test-books/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(ok) - okBefore; got != 2 {
		t.Errorf("pattern counter delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(notFound) - notFoundBefore; got != 1 {
		t.Errorf("404 counter delta = %v, want 1", got)
	}
}

func TestPrometheusMetrics_WithoutRouter(t *testing.T) {
	t.Parallel()

	counter := metrics.APIRequestsTotal.WithLabelValues("DELETE", unmatchedEndpoint, "204")
	before := testutil.ToFloat64(counter)

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/raw/path", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched counter delta = %v, want 1", got)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("captures first status code", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

		wrapper.WriteHeader(http.StatusNotFound)
		wrapper.WriteHeader(http.StatusInternalServerError)

		if wrapper.statusCode != http.StatusNotFound {
			t.Errorf("statusCode = %d, want 404", wrapper.statusCode)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("recorder code = %d, want 404", rec.Code)
		}
	})

	t.Run("default status code is 200", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

		if _, err := wrapper.Write([]byte("test")); err != nil {
			t.Fatal(err)
		}
		if wrapper.statusCode != http.StatusOK {
			t.Errorf("statusCode = %d, want 200", wrapper.statusCode)
		}
		if rec.Body.String() != "test" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapper := &metricsResponseWriter{ResponseWriter: rec}
		if wrapper.Unwrap() != rec {
			t.Error("Unwrap() should return the wrapped writer")
		}
	})
}
