// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookmatch/internal/metrics"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// Rebuild triggers, used as log fields and metric labels.
const (
	ReasonStartup        = "startup"
	ReasonInterval       = "interval"
	ReasonCatalogChanged = "catalog_changed"
)

// IndexEngine is the part of *recommend.Engine the service drives.
type IndexEngine interface {
	Rebuild(ctx context.Context) (*recommend.BuildReport, error)
	Ready() bool
}

// RebuildHook runs after every successful rebuild, on the goroutine that
// performed it.
type RebuildHook func(ctx context.Context, report *recommend.BuildReport)

// IndexServiceConfig holds configuration for the index service.
type IndexServiceConfig struct {
	// BuildOnStart builds when the service starts and no index is served yet.
	BuildOnStart bool

	// RebuildInterval schedules periodic rebuilds. 0 disables them.
	RebuildInterval time.Duration

	// WatchPath is a catalog file to watch for changes. Empty disables watching.
	WatchPath string

	// WatchDebounce waits for writes to settle before rebuilding.
	// Default: 2s
	WatchDebounce time.Duration

	// RebuildBurst and RebuildEvery define the rebuild token bucket.
	// Default: 1 per 30s
	RebuildBurst int
	RebuildEvery time.Duration

	// BuildTimeout bounds one rebuild.
	// Default: 10m
	BuildTimeout time.Duration
}

// DefaultIndexServiceConfig returns the defaults.
func DefaultIndexServiceConfig() IndexServiceConfig {
	return IndexServiceConfig{
		BuildOnStart:  true,
		WatchDebounce: 2 * time.Second,
		RebuildBurst:  1,
		RebuildEvery:  30 * time.Second,
		BuildTimeout:  10 * time.Minute,
	}
}

// IndexService owns the index lifecycle under suture: the initial build,
// scheduled rebuilds, catalog file watching and explicit rebuild requests.
//
// Every rebuild except the startup build spends a token from a rate limiter.
// A request that finds the bucket empty is queued; further requests made
// while one is queued are coalesced into it, so a burst of catalog writes or
// API calls produces at most one extra rebuild.
type IndexService struct {
	engine  IndexEngine
	config  IndexServiceConfig
	limiter *rate.Limiter
	pending chan string
	logger  zerolog.Logger
	name    string

	mu    sync.RWMutex
	hooks []RebuildHook
}

// NewIndexService creates the service. Zero config fields take the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexService(engine IndexEngine, cfg IndexServiceConfig, logger zerolog.Logger) *IndexService {
	defaults := DefaultIndexServiceConfig()
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = defaults.WatchDebounce
	}
	if cfg.RebuildBurst <= 0 {
		cfg.RebuildBurst = defaults.RebuildBurst
	}
	if cfg.RebuildEvery <= 0 {
		cfg.RebuildEvery = defaults.RebuildEvery
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = defaults.BuildTimeout
	}

	return &IndexService{
		engine:  engine,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.RebuildEvery), cfg.RebuildBurst),
		pending: make(chan string, 1),
		logger:  logger.With().Str("service", "index").Logger(),
		name:    "index-service",
	}
}

// OnRebuild registers a hook called after each successful rebuild.
func (s *IndexService) OnRebuild(hook RebuildHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// RequestRebuild rebuilds now when the limiter allows it and returns the
// report. Otherwise the request is queued for the service loop and
// RequestRebuild returns (nil, nil).
func (s *IndexService) RequestRebuild(ctx context.Context, reason string) (*recommend.BuildReport, error) {
	if s.limiter.Allow() {
		metrics.RecordRebuildRequest(reason, "run")
		return s.rebuild(ctx, reason)
	}
	s.schedule(reason)
	return nil, nil
}

// schedule queues a rebuild, merging it with one already queued.
func (s *IndexService) schedule(reason string) {
	select {
	case s.pending <- reason:
		metrics.RecordRebuildRequest(reason, "deferred")
		s.logger.Debug().Str("reason", reason).Msg("rebuild deferred by throttling")
	default:
		metrics.RecordRebuildRequest(reason, "coalesced")
		s.logger.Debug().Str("reason", reason).Msg("rebuild coalesced with queued request")
	}
}

func (s *IndexService) rebuild(ctx context.Context, reason string) (*recommend.BuildReport, error) {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	report, err := s.engine.Rebuild(buildCtx)
	if err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("index rebuild failed")
		return nil, err
	}

	s.logger.Debug().
		Str("reason", reason).
		Int64("version", report.Version).
		Msg("index rebuild complete")

	s.mu.RLock()
	hooks := make([]RebuildHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()
	// Hooks outlive the caller: an API request may end before they finish.
	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range hooks {
		hook(hookCtx, report)
	}
	return report, nil
}

// Serve implements suture.Service.
func (s *IndexService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_start", s.config.BuildOnStart).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Str("watch", s.config.WatchPath).
		Msg("index service starting")

	var (
		events  <-chan fsnotify.Event
		errs    <-chan error
		watched string
	)
	if s.config.WatchPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create catalog watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory: editors and deploy tools replace files by
		// rename, which drops a watch placed on the file itself.
		if err := watcher.Add(filepath.Dir(s.config.WatchPath)); err != nil {
			return fmt.Errorf("watch %s: %w", s.config.WatchPath, err)
		}
		events, errs = watcher.Events, watcher.Errors
		watched = filepath.Base(s.config.WatchPath)
	}

	// After a supervisor restart the previous index is still served.
	if s.config.BuildOnStart && !s.engine.Ready() {
		if _, err := s.rebuild(ctx, ReasonStartup); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.schedule(ReasonStartup)
		}
	}

	var tick <-chan time.Time
	if s.config.RebuildInterval > 0 {
		ticker := time.NewTicker(s.config.RebuildInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		debounce  *time.Timer
		debounced <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index service shutting down")
			return ctx.Err()

		case <-tick:
			s.schedule(ReasonInterval)

		case ev, ok := <-events:
			if !ok {
				return errors.New("catalog watcher closed")
			}
			if filepath.Base(ev.Name) != watched || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(s.config.WatchDebounce)
			} else {
				debounce.Reset(s.config.WatchDebounce)
			}
			debounced = debounce.C

		case err, ok := <-errs:
			if !ok {
				return errors.New("catalog watcher closed")
			}
			s.logger.Warn().Err(err).Msg("catalog watcher error")

		case <-debounced:
			debounced = nil
			s.logger.Info().Str("path", s.config.WatchPath).Msg("catalog changed")
			s.schedule(ReasonCatalogChanged)

		case reason := <-s.pending:
			if err := s.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn().Err(err).Msg("rebuild limiter refused wait")
				continue
			}
			// Failures are logged in rebuild. Keep retrying, at the
			// limiter's pace, until there is an index to serve.
			if _, err := s.rebuild(ctx, reason); err != nil && ctx.Err() == nil && !s.engine.Ready() {
				s.schedule(reason)
			}
		}
	}
}

// String names the service in supervisor events.
func (s *IndexService) String() string {
	return s.name
}
