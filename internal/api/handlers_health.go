// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// It returns 200 as long as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// It returns 200 once an index is being served and 503 before that or
// after an invalidation.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := h.engine.Status()

	data := map[string]interface{}{
		"ready":         status.Ready,
		"index_version": status.Version,
		"items":         status.Items,
		"rebuilding":    status.Rebuilding,
		"uptime":        time.Since(h.startTime).Seconds(),
	}

	if !status.Ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeIndexNotReady, "The index has not been built yet", data)
		return
	}
	rw.Success(data)
}
