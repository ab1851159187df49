// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookmatch/internal/cache"
	"github.com/tomtom215/bookmatch/internal/metrics"
	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

// Engine holds the index currently being served and rebuilds it on demand.
// Readers load the index through an atomic pointer and never block on a
// rebuild; a rebuild publishes a fully built index in one swap.
// It is safe for concurrent use.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	tokenizer *vectorspace.Tokenizer

	current atomic.Pointer[servedIndex]
	version atomic.Int64

	// buildMu serializes rebuilds; a second caller fails fast instead of queueing.
	buildMu    sync.Mutex
	rebuilding atomic.Bool

	depsMu sync.RWMutex
	source CatalogSource
	store  IndexStore

	cache *cache.LRU[[]ScoredItem]

	requestCount  atomic.Int64
	errorCount    atomic.Int64
	rebuilds      atomic.Int64
	invalidations atomic.Int64
}

// servedIndex is an index together with the report of the build that produced it.
type servedIndex struct {
	index  *Index
	report BuildReport
}

// NewEngine creates an engine with no index. Call Rebuild to serve one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		tokenizer: vectorspace.NewTokenizer(cfg.Tokenizer.Resolve()),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[[]ScoredItem](cfg.Cache.Capacity, cfg.Cache.TTL)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// SetCatalogSource sets where Rebuild loads items from.
func (e *Engine) SetCatalogSource(src CatalogSource) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	e.source = src
}

// SetIndexStore enables snapshot reuse. A nil store disables it.
func (e *Engine) SetIndexStore(store IndexStore) {
	e.depsMu.Lock()
	defer e.depsMu.Unlock()
	e.store = store
}

func (e *Engine) deps() (CatalogSource, IndexStore) {
	e.depsMu.RLock()
	defer e.depsMu.RUnlock()
	return e.source, e.store
}

// Rebuild loads the catalog, builds (or restores) a new index and swaps it in.
// The previous index keeps serving until the swap. Only one rebuild runs at a
// time; concurrent callers get ErrRebuildInProgress.
func (e *Engine) Rebuild(ctx context.Context) (*BuildReport, error) {
	if !e.buildMu.TryLock() {
		metrics.RecordIndexBuild("", 0, ErrRebuildInProgress)
		return nil, ErrRebuildInProgress
	}
	defer e.buildMu.Unlock()

	e.rebuilding.Store(true)
	defer e.rebuilding.Store(false)

	start := time.Now()
	report, err := e.rebuild(ctx, start)
	if err != nil {
		duration := time.Since(start)
		metrics.RecordIndexBuild("", duration, err)
		e.logger.Error().Err(err).Dur("duration", duration).Msg("index rebuild failed")
		return nil, err
	}

	duration := report.Duration
	metrics.RecordIndexBuild(string(report.Origin), duration, nil)
	e.logger.Info().
		Int64("version", report.Version).
		Int("items", report.Items).
		Int("terms", report.Terms).
		Str("origin", string(report.Origin)).
		Str("source", report.Source).
		Dur("duration", duration).
		Msg("index rebuilt")

	return report, nil
}

func (e *Engine) rebuild(ctx context.Context, start time.Time) (*BuildReport, error) {
	source, store := e.deps()
	if source == nil {
		return nil, ErrNoCatalogSource
	}

	items, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", source.Name(), err)
	}
	if len(items) == 0 {
		return nil, &EmptyCatalogError{Source: source.Name()}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix, origin, fingerprint, err := e.buildOrRestore(ctx, items, store)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := BuildReport{
		Version:     e.version.Add(1),
		Items:       ix.Len(),
		Terms:       ix.Terms(),
		Origin:      origin,
		Fingerprint: fingerprint,
		Source:      source.Name(),
		Duration:    time.Since(start),
		BuiltAt:     time.Now().UTC(),
	}
	e.publish(ix, report)
	e.rebuilds.Add(1)

	return &report, nil
}

// buildOrRestore reuses a stored snapshot whose fingerprint matches the
// catalog and tokenizer, and builds from scratch otherwise. Store failures
// are logged and never fail the rebuild.
func (e *Engine) buildOrRestore(ctx context.Context, items []Item, store IndexStore) (*Index, BuildOrigin, string, error) {
	prepared, docs, err := prepareCatalog(items)
	if err != nil {
		return nil, "", "", err
	}
	fingerprint := vectorspace.Fingerprint(e.tokenizer.Config(), docs)

	if store != nil {
		if ix := e.restore(ctx, store, fingerprint, prepared); ix != nil {
			return ix, OriginSnapshot, fingerprint, nil
		}
	}

	vs, err := vectorspace.Build(docs, e.tokenizer)
	if err != nil {
		if errors.Is(err, vectorspace.ErrEmptyCorpus) {
			return nil, "", "", &EmptyCatalogError{}
		}
		return nil, "", "", fmt.Errorf("build vector space: %w", err)
	}
	ix := assembleIndex(vs, prepared)

	if store != nil {
		if err := store.Save(ctx, fingerprint, vs.Snapshot()); err != nil {
			metrics.RecordSnapshot("save", "error")
			e.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("failed to save index snapshot")
		} else {
			metrics.RecordSnapshot("save", "ok")
		}
	}

	return ix, OriginBuilt, fingerprint, nil
}

func (e *Engine) restore(ctx context.Context, store IndexStore, fingerprint string, items []Item) *Index {
	snap, found, err := store.Load(ctx, fingerprint)
	switch {
	case err != nil:
		metrics.RecordSnapshot("load", "error")
		e.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("failed to load index snapshot")
		return nil
	case !found:
		metrics.RecordSnapshot("load", "miss")
		return nil
	}

	ix, err := RestoreIndex(items, snap)
	if err != nil {
		metrics.RecordSnapshot("load", "invalid")
		e.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("discarding unusable index snapshot")
		return nil
	}

	metrics.RecordSnapshot("load", "hit")
	return ix
}

// publish swaps in a new index and drops cached results of the old one.
//
//nolint:gocritic // report is copied into the served snapshot
func (e *Engine) publish(ix *Index, report BuildReport) {
	e.current.Store(&servedIndex{index: ix, report: report})
	if e.cache != nil {
		e.cache.Clear()
	}
	metrics.UpdateIndexGauges(report.Version, report.Items, report.Terms, report.BuiltAt)
}

// Invalidate stops serving the current index and clears the result cache.
// Queries fail with ErrIndexNotReady until the next successful Rebuild.
func (e *Engine) Invalidate() {
	old := e.current.Swap(nil)
	if e.cache != nil {
		e.cache.Clear()
	}
	e.invalidations.Add(1)
	metrics.ResetIndexGauges()

	if old != nil {
		e.logger.Info().Int64("version", old.report.Version).Msg("index invalidated")
	}
}

// Ready reports whether an index is being served.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Current returns the index being served, or ErrIndexNotReady.
func (e *Engine) Current() (*Index, error) {
	served := e.current.Load()
	if served == nil {
		return nil, ErrIndexNotReady
	}
	return served.index, nil
}

// Recommend returns the k items most similar to the item with the given ID.
// k is capped at limits.max_k; k <= 0 yields an empty list.
func (e *Engine) Recommend(ctx context.Context, id string, k int) (*Response, error) {
	return e.recommend(ctx, LookupID, id, k)
}

// RecommendByTitle resolves title to the first catalog item carrying exactly
// that title and returns the items most similar to it.
func (e *Engine) RecommendByTitle(ctx context.Context, title string, k int) (*Response, error) {
	return e.recommend(ctx, LookupTitle, title, k)
}

func (e *Engine) recommend(ctx context.Context, lookup Lookup, key string, k int) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	served := e.current.Load()
	if served == nil {
		e.errorCount.Add(1)
		metrics.RecordRecommend(string(lookup), "not_ready", time.Since(start))
		return nil, ErrIndexNotReady
	}
	ix := served.index

	row, ok := e.resolve(ix, lookup, key)
	if !ok {
		metrics.RecordRecommend(string(lookup), "not_found", time.Since(start))
		return nil, &NotFoundError{ID: key, Lookup: lookup}
	}
	query := ix.items[row]

	if k > e.config.Limits.MaxK {
		k = e.config.Limits.MaxK
	}

	items, hit, err := e.rankCached(ix, served.report.Version, row, k)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommend(string(lookup), "error", time.Since(start))
		return nil, fmt.Errorf("rank neighbors of %s: %w", query.ID, err)
	}

	resp := &Response{
		Query: query,
		Items: items,
		Metadata: ResponseMetadata{
			Lookup:       lookup,
			K:            k,
			IndexVersion: served.report.Version,
			CacheHit:     hit,
			LatencyMS:    time.Since(start).Milliseconds(),
			Timestamp:    time.Now(),
		},
	}

	metrics.RecordRecommend(string(lookup), "ok", time.Since(start))
	e.logger.Debug().
		Str("isbn", query.ID).
		Str("lookup", string(lookup)).
		Int("k", k).
		Int("returned", len(items)).
		Bool("cache_hit", hit).
		Msg("similar books served")

	return resp, nil
}

func (e *Engine) resolve(ix *Index, lookup Lookup, key string) (int, bool) {
	if lookup == LookupTitle {
		return ix.RowByTitle(key)
	}
	row, ok := ix.rows[key]
	return row, ok
}

// rankCached returns the ranked neighbors of row, consulting the result
// cache first. Cache keys carry the index version so entries never outlive
// the index they were computed from.
func (e *Engine) rankCached(ix *Index, version int64, row, k int) ([]ScoredItem, bool, error) {
	if e.cache == nil {
		items, err := ix.recommendRow(row, k)
		return items, false, err
	}

	key := fmt.Sprintf("%d|%d|%d", version, row, k)
	if items, ok := e.cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		return copyScored(items), true, nil
	}
	metrics.RecordCacheLookup(false)

	items, err := ix.recommendRow(row, k)
	if err != nil {
		return nil, false, err
	}
	e.cache.Add(key, copyScored(items))
	return items, false, nil
}

func copyScored(in []ScoredItem) []ScoredItem {
	out := make([]ScoredItem, len(in))
	copy(out, in)
	return out
}

// Lookup returns the catalog item with the given ID.
func (e *Engine) Lookup(id string) (Item, error) {
	ix, err := e.Current()
	if err != nil {
		return Item{}, err
	}
	item, ok := ix.Lookup(id)
	if !ok {
		return Item{}, &NotFoundError{ID: id, Lookup: LookupID}
	}
	return item, nil
}

// Titles returns the distinct catalog titles in catalog order.
func (e *Engine) Titles() ([]string, error) {
	ix, err := e.Current()
	if err != nil {
		return nil, err
	}
	return ix.Titles(), nil
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	st := Status{
		Rebuilding:    e.rebuilding.Load(),
		Rebuilds:      e.rebuilds.Load(),
		Invalidations: e.invalidations.Load(),
		Requests:      e.requestCount.Load(),
		Errors:        e.errorCount.Load(),
	}
	if e.cache != nil {
		st.CacheHits, st.CacheMisses, st.CacheEntries = e.cache.Stats()
	}

	served := e.current.Load()
	if served == nil {
		return st
	}

	st.Ready = true
	st.Version = served.report.Version
	st.Items = served.report.Items
	st.Terms = served.report.Terms
	st.Origin = served.report.Origin
	st.Fingerprint = served.report.Fingerprint
	st.Source = served.report.Source
	st.BuiltAt = served.report.BuiltAt
	st.BuildDuration = served.report.Duration
	return st
}
