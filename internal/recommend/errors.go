// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/bookmatch/internal/metrics"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("item not found")

	// ErrEmptyCatalog matches every EmptyCatalogError.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrIndexNotReady is returned while no index is being served, either
	// before the first rebuild or after Invalidate.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrRebuildInProgress is returned when a rebuild is requested while
	// another one is running.
	ErrRebuildInProgress = fmt.Errorf("rebuild already in progress: %w", metrics.ErrBusy)

	// ErrNoCatalogSource is returned by Rebuild when no source was set.
	ErrNoCatalogSource = errors.New("catalog source not set")

	// ErrUnknownGenre is returned by BrowseGenre for names outside Genres().
	ErrUnknownGenre = errors.New("unknown genre")

	// ErrDuplicateID is returned by BuildIndex when two items share an ID.
	ErrDuplicateID = errors.New("duplicate item id")
)

// NotFoundError reports a query id or title that is not in the catalog.
type NotFoundError struct {
	// ID is the missing identifier or title.
	ID string
	// Lookup says whether ID was an item id or a title.
	Lookup Lookup
}

func (e *NotFoundError) Error() string {
	if e.Lookup == LookupTitle {
		return fmt.Sprintf("no book titled %q", e.ID)
	}
	return fmt.Sprintf("book %q not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// EmptyCatalogError reports an attempt to build an index from zero items.
type EmptyCatalogError struct {
	// Source names the catalog source, if known.
	Source string
}

func (e *EmptyCatalogError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("catalog %s has no items", e.Source)
	}
	return ErrEmptyCatalog.Error()
}

// Is makes errors.Is(err, ErrEmptyCatalog) true for every EmptyCatalogError.
func (e *EmptyCatalogError) Is(target error) bool {
	return target == ErrEmptyCatalog
}
