// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

// Item is one book in the catalog. Items are immutable once loaded.
type Item struct {
	// ID is the unique catalog key (the ISBN).
	ID string `json:"isbn"`

	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year"`

	// ImageURL is a cover thumbnail, possibly empty.
	ImageURL string `json:"image_url,omitempty"`

	// CompositeText is the document indexed for this item. BuildIndex fills
	// it with ComposeFeatures when empty.
	CompositeText string `json:"-"`
}

// ScoredItem is an item with its similarity to the query item.
type ScoredItem struct {
	Item  Item    `json:"book"`
	Score float64 `json:"score"`
}

// Lookup names how the query item was resolved.
type Lookup string

const (
	LookupID    Lookup = "id"
	LookupTitle Lookup = "title"
)

// Response is the result of a similar-books query.
type Response struct {
	Query    Item             `json:"query"`
	Items    []ScoredItem     `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	Lookup       Lookup    `json:"lookup"`
	K            int       `json:"k"`
	IndexVersion int64     `json:"index_version"`
	CacheHit     bool      `json:"cache_hit"`
	LatencyMS    int64     `json:"latency_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// BuildOrigin says where a served index came from.
type BuildOrigin string

const (
	OriginBuilt    BuildOrigin = "built"
	OriginSnapshot BuildOrigin = "snapshot"
)

// BuildReport summarizes one successful rebuild.
type BuildReport struct {
	Version     int64         `json:"version"`
	Items       int           `json:"items"`
	Terms       int           `json:"terms"`
	Origin      BuildOrigin   `json:"origin"`
	Fingerprint string        `json:"fingerprint"`
	Source      string        `json:"source"`
	Duration    time.Duration `json:"duration_ns"`
	BuiltAt     time.Time     `json:"built_at"`
}

// Status is a point-in-time view of the engine for health and admin endpoints.
type Status struct {
	Ready         bool          `json:"ready"`
	Version       int64         `json:"version"`
	Items         int           `json:"items"`
	Terms         int           `json:"terms"`
	Origin        BuildOrigin   `json:"origin,omitempty"`
	Fingerprint   string        `json:"fingerprint,omitempty"`
	Source        string        `json:"source,omitempty"`
	BuiltAt       time.Time     `json:"built_at,omitempty"`
	BuildDuration time.Duration `json:"build_duration_ns"`
	Rebuilding    bool          `json:"rebuilding"`
	Rebuilds      int64         `json:"rebuilds"`
	Invalidations int64         `json:"invalidations"`
	Requests      int64         `json:"requests"`
	CacheHits     int64         `json:"cache_hits"`
	CacheMisses   int64         `json:"cache_misses"`
	CacheEntries  int           `json:"cache_entries"`
	Errors        int64         `json:"errors"`
}

// CatalogSource supplies the items to index, in catalog order.
type CatalogSource interface {
	Load(ctx context.Context) ([]Item, error)

	// Name identifies the source in logs and status output.
	Name() string
}

// IndexStore persists vector-space snapshots keyed by corpus fingerprint.
// Load reports found=false, with a nil error, when the key is absent.
type IndexStore interface {
	Load(ctx context.Context, key string) (snap *vectorspace.Snapshot, found bool, err error)
	Save(ctx context.Context, key string, snap *vectorspace.Snapshot) error
}
