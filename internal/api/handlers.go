// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// Rebuilder performs or schedules an index rebuild. A nil report with a nil
// error means the request was accepted but deferred by throttling.
type Rebuilder interface {
	RequestRebuild(ctx context.Context, reason string) (*recommend.BuildReport, error)
}

// PopularityReader serves the ratings chart.
type PopularityReader interface {
	Top(ctx context.Context, minRatings, limit int) ([]popularity.Book, error)
}

// engineRebuilder rebuilds synchronously, without throttling.
type engineRebuilder struct {
	engine *recommend.Engine
}

func (e engineRebuilder) RequestRebuild(ctx context.Context, _ string) (*recommend.BuildReport, error) {
	return e.engine.Rebuild(ctx)
}

// HandlerDeps are the optional collaborators of Handler.
type HandlerDeps struct {
	// Rebuilder defaults to rebuilding on the engine directly.
	Rebuilder Rebuilder

	// Popularity is nil when no ratings file is configured.
	Popularity PopularityReader

	// Audit defaults to logging.NewAuditLogger().
	Audit *logging.AuditLogger

	// RequestTimeout bounds each handler. Default: 10s
	RequestTimeout time.Duration
}

// Handler serves the HTTP API.
type Handler struct {
	engine    *recommend.Engine
	rebuilder Rebuilder
	popular   PopularityReader
	audit     *logging.AuditLogger
	timeout   time.Duration
	startTime time.Time
}

// NewHandler creates the API handler set around engine.
func NewHandler(engine *recommend.Engine, deps HandlerDeps) *Handler {
	h := &Handler{
		engine:    engine,
		rebuilder: deps.Rebuilder,
		popular:   deps.Popularity,
		audit:     deps.Audit,
		timeout:   deps.RequestTimeout,
		startTime: time.Now(),
	}
	if h.rebuilder == nil {
		h.rebuilder = engineRebuilder{engine: engine}
	}
	if h.audit == nil {
		h.audit = logging.NewAuditLogger()
	}
	if h.timeout <= 0 {
		h.timeout = 10 * time.Second
	}
	return h
}

// requestContext derives the per-request deadline.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}
