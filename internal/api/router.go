// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/bookmatch/internal/auth"
	"github.com/tomtom215/bookmatch/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	guard         *auth.Middleware
}

// NewRouter creates a router. A nil guard leaves the admin endpoints open.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, guard *auth.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	if guard == nil {
		guard = auth.NewMiddleware(nil, nil, WriteError)
	}
	return &Router{handler: handler, chiMiddleware: chiMW, guard: guard}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())      // X-Request-ID and logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(RequestLogger())             // One log line per request
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "No route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.With(router.chiMiddleware.RateLimitHealth()).Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/books", func(r chi.Router) {
			r.Get("/similar", router.handler.SimilarByTitle)
			r.Get("/titles", router.handler.Titles)
			r.Get("/popular", router.handler.Popular)
			r.Get("/{isbn}", router.handler.GetBook)
			r.Get("/{isbn}/similar", router.handler.SimilarByISBN)
		})

		r.Get("/genres", router.handler.Genres)
		r.Get("/genres/{genre}/books", router.handler.GenreBooks)

		r.Route("/index", func(r chi.Router) {
			r.Get("/status", router.handler.IndexStatus)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitAdmin())
				r.Use(router.guard.RequireRole(auth.RoleAdmin))
				r.Post("/rebuild", router.handler.RebuildIndex)
				r.Post("/invalidate", router.handler.InvalidateIndex)
			})
		})
	})

	return r
}
