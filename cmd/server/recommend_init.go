// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/bookmatch/internal/catalog"
	"github.com/tomtom215/bookmatch/internal/config"
	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
	"github.com/tomtom215/bookmatch/internal/snapshot"
	"github.com/tomtom215/bookmatch/internal/supervisor/services"
)

// RecommendComponents holds the engine and the service that rebuilds it.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *services.IndexService
}

// initRecommend creates the engine and its index service. The stores are
// optional.
func initRecommend(cfg *config.Config, snapshots *snapshot.Store, popular *popularity.Store) (*RecommendComponents, error) {
	logger := logging.Component("recommend")

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	source := newCatalogSource(cfg)
	engine.SetCatalogSource(source)
	if snapshots != nil {
		engine.SetIndexStore(snapshots)
	}

	serviceCfg := services.IndexServiceConfig{
		BuildOnStart:    true,
		RebuildInterval: cfg.Recommend.RebuildInterval,
		WatchDebounce:   cfg.Catalog.WatchDebounce,
		RebuildBurst:    cfg.Catalog.RebuildBurst,
		RebuildEvery:    cfg.Catalog.RebuildEvery,
	}
	if cfg.Catalog.Watch {
		serviceCfg.WatchPath = cfg.Catalog.Path
	}
	service := services.NewIndexService(engine, serviceCfg, logging.Component("index"))

	if popular != nil {
		books := newPopularityCatalogSource(cfg)
		service.OnRebuild(func(ctx context.Context, _ *recommend.BuildReport) {
			if err := popular.RefreshCatalog(ctx, books); err != nil {
				logger.Warn().Err(err).Msg("failed to refresh popularity catalog")
			}
		})
	}
	if snapshots != nil {
		service.OnRebuild(func(ctx context.Context, report *recommend.BuildReport) {
			removed, err := snapshots.Prune(ctx, report.Fingerprint)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to prune index snapshots")
				return
			}
			if removed > 0 {
				logger.Debug().Int("removed", removed).Msg("pruned stale index snapshots")
			}
		})
	}

	logger.Info().
		Str("source", source.Name()).
		Int("max_items", cfg.Catalog.MaxItems).
		Bool("stemming", cfg.Recommend.Tokenizer.Stemming).
		Bool("snapshots", snapshots != nil).
		Bool("watch", serviceCfg.WatchPath != "").
		Dur("rebuild_interval", serviceCfg.RebuildInterval).
		Msg("recommendation engine initialized")

	return &RecommendComponents{Engine: engine, Service: service}, nil
}

// newCatalogSource reads the catalog from catalog.url when set and from
// catalog.path otherwise.
func newCatalogSource(cfg *config.Config) recommend.CatalogSource {
	return catalogSource(cfg, cfg.Catalog.Options())
}

// newPopularityCatalogSource reads the same catalog without the
// catalog.max_items cut, since the chart ranks the whole dump.
func newPopularityCatalogSource(cfg *config.Config) recommend.CatalogSource {
	opts := cfg.Catalog.Options()
	opts.MaxItems = 0
	return catalogSource(cfg, opts)
}

func catalogSource(cfg *config.Config, opts catalog.Options) recommend.CatalogSource {
	if cfg.Catalog.URL != "" {
		return catalog.NewHTTPSource(cfg.Catalog.URL, opts, &http.Client{Timeout: cfg.Catalog.FetchTimeout})
	}
	return catalog.NewFileSource(cfg.Catalog.Path, opts)
}
