// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"net/http"

	"github.com/tomtom215/bookmatch/internal/auth"
)

// IndexStatus handles GET /api/v1/index/status
func (h *Handler) IndexStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Status())
}

// RebuildIndex handles POST /api/v1/index/rebuild
//
// Responds 200 with the build report when the rebuild ran, 202 when it was
// deferred by throttling and 409 when another rebuild is running.
func (h *Handler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	report, err := h.rebuilder.RequestRebuild(r.Context(), "api")
	h.audit.LogIndexAction("index_rebuild", auth.Subject(r.Context()), auth.ClientIP(r), err)
	if err != nil {
		respondDomainError(rw, err)
		return
	}

	if report == nil {
		rw.Accepted(map[string]interface{}{"scheduled": true})
		return
	}
	rw.Success(report)
}

// InvalidateIndex handles POST /api/v1/index/invalidate
// The index stays unavailable until the next rebuild.
func (h *Handler) InvalidateIndex(w http.ResponseWriter, r *http.Request) {
	h.engine.Invalidate()
	h.audit.LogIndexAction("index_invalidate", auth.Subject(r.Context()), auth.ClientIP(r), nil)
	NewResponseWriter(w, r).Success(h.engine.Status())
}
