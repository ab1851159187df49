// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookmatch/internal/logging"
)

// isbnParam returns the unescaped {isbn} path parameter.
func isbnParam(r *http.Request) string {
	raw := chi.URLParam(r, "isbn")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// SimilarByISBN handles GET /api/v1/books/{isbn}/similar?k=
func (h *Handler) SimilarByISBN(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, err := getIntParam(r, "k", h.engine.Config().Limits.DefaultK)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	req := SimilarByISBNRequest{ISBN: isbnParam(r), K: k}
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp, err := h.engine.Recommend(ctx, req.ISBN, req.K)
	if err != nil {
		respondDomainError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("isbn", req.ISBN).
		Int("k", resp.Metadata.K).
		Int("results", len(resp.Items)).
		Bool("cache_hit", resp.Metadata.CacheHit).
		Msg("Similar books served")
	rw.Success(resp)
}

// SimilarByTitle handles GET /api/v1/books/similar?title=&k=
// The title must match a catalog title exactly; the first catalog row with
// that title is the query.
func (h *Handler) SimilarByTitle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	k, err := getIntParam(r, "k", h.engine.Config().Limits.DefaultK)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	req := SimilarByTitleRequest{Title: r.URL.Query().Get("title"), K: k}
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp, err := h.engine.RecommendByTitle(ctx, req.Title, req.K)
	if err != nil {
		respondDomainError(rw, err)
		return
	}
	rw.Success(resp)
}

// GetBook handles GET /api/v1/books/{isbn}
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SimilarByISBNRequest{ISBN: isbnParam(r)}
	if !validateRequest(rw, &req) {
		return
	}

	item, err := h.engine.Lookup(req.ISBN)
	if err != nil {
		respondDomainError(rw, err)
		return
	}
	rw.Success(item)
}

// Titles handles GET /api/v1/books/titles
// It returns distinct titles in catalog order for autocomplete.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	titles, err := h.engine.Titles()
	if err != nil {
		respondDomainError(rw, err)
		return
	}
	rw.SuccessList(titles, len(titles))
}

// Popular handles GET /api/v1/books/popular?limit=&min_ratings=
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.popular == nil {
		respondDomainError(rw, ErrPopularityDisabled)
		return
	}

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	minRatings, err := getIntParam(r, "min_ratings", 0)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	req := PopularRequest{Limit: limit, MinRatings: minRatings}
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	books, err := h.popular.Top(ctx, req.MinRatings, req.Limit)
	if err != nil {
		respondDomainError(rw, err)
		return
	}
	rw.SuccessList(books, len(books))
}
