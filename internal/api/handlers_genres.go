// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookmatch/internal/recommend"
)

// Genres handles GET /api/v1/genres
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres := recommend.Genres()
	NewResponseWriter(w, r).SuccessList(genres, len(genres))
}

// GenreBooks handles GET /api/v1/genres/{genre}/books?n=&seed=
func (h *Handler) GenreBooks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := chi.URLParam(r, "genre")
	if v, err := url.PathUnescape(name); err == nil {
		name = v
	}

	n, err := getIntParam(r, "n", 0)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	seed, err := getInt64Param(r, "seed", 0)
	if err != nil {
		respondParamError(rw, err)
		return
	}
	req := GenreBooksRequest{Genre: name, N: n, Seed: seed}
	if !validateRequest(rw, &req) {
		return
	}

	books, err := h.engine.BrowseGenre(req.Genre, req.N, req.Seed)
	if err != nil {
		respondDomainError(rw, err)
		return
	}
	rw.SuccessList(books, len(books))
}
