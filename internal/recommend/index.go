// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

// Index pairs a vector space with the catalog it was built from. Row i of
// the vector space describes items[i]. An Index is never mutated after
// construction and is safe for concurrent readers.
type Index struct {
	vs     *vectorspace.Index
	items  []Item
	rows   map[string]int
	titles map[string]int // first row carrying each title
	order  []string       // distinct titles in catalog order
}

// prepareCatalog copies items, fills missing composite texts and returns the
// documents to index. It rejects empty catalogs and duplicate IDs.
func prepareCatalog(items []Item) ([]Item, []string, error) {
	if len(items) == 0 {
		return nil, nil, &EmptyCatalogError{}
	}

	prepared := make([]Item, len(items))
	docs := make([]string, len(items))
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		it := items[i]
		if _, dup := seen[it.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}

		if it.CompositeText == "" {
			it.CompositeText = ComposeFeatures(&it)
		}
		prepared[i] = it
		docs[i] = it.CompositeText
	}

	return prepared, docs, nil
}

// BuildIndex composes one document per item and builds the TF-IDF space
// over them in catalog order. A nil tokenizer uses the defaults.
func BuildIndex(items []Item, tok *vectorspace.Tokenizer) (*Index, error) {
	prepared, docs, err := prepareCatalog(items)
	if err != nil {
		return nil, err
	}

	vs, err := vectorspace.Build(docs, tok)
	if err != nil {
		if errors.Is(err, vectorspace.ErrEmptyCorpus) {
			return nil, &EmptyCatalogError{}
		}
		return nil, fmt.Errorf("build vector space: %w", err)
	}

	return assembleIndex(vs, prepared), nil
}

// RestoreIndex rebuilds an Index from a stored snapshot of the same catalog.
func RestoreIndex(items []Item, snap *vectorspace.Snapshot) (*Index, error) {
	prepared, _, err := prepareCatalog(items)
	if err != nil {
		return nil, err
	}

	vs, err := vectorspace.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if vs.Len() != len(prepared) {
		return nil, fmt.Errorf("%w: snapshot has %d rows, catalog has %d items",
			vectorspace.ErrInvalidSnapshot, vs.Len(), len(prepared))
	}

	return assembleIndex(vs, prepared), nil
}

func assembleIndex(vs *vectorspace.Index, items []Item) *Index {
	ix := &Index{
		vs:     vs,
		items:  items,
		rows:   make(map[string]int, len(items)),
		titles: make(map[string]int, len(items)),
	}
	for i := range items {
		ix.rows[items[i].ID] = i
		if items[i].Title == "" {
			continue
		}
		if _, ok := ix.titles[items[i].Title]; !ok {
			ix.titles[items[i].Title] = i
			ix.order = append(ix.order, items[i].Title)
		}
	}
	return ix
}

// Len returns the number of indexed items.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Terms returns the vocabulary size.
func (ix *Index) Terms() int {
	return ix.vs.Terms()
}

// Space exposes the underlying vector space.
func (ix *Index) Space() *vectorspace.Index {
	return ix.vs
}

// Item returns the item at row.
func (ix *Index) Item(row int) (Item, bool) {
	if row < 0 || row >= len(ix.items) {
		return Item{}, false
	}
	return ix.items[row], true
}

// Items returns a copy of the indexed items in catalog order.
func (ix *Index) Items() []Item {
	out := make([]Item, len(ix.items))
	copy(out, ix.items)
	return out
}

// Lookup returns the item with the given ID.
func (ix *Index) Lookup(id string) (Item, bool) {
	row, ok := ix.rows[id]
	if !ok {
		return Item{}, false
	}
	return ix.items[row], true
}

// RowByTitle returns the first row, in catalog order, whose title is exactly title.
func (ix *Index) RowByTitle(title string) (int, bool) {
	row, ok := ix.titles[title]
	return row, ok
}

// Titles returns the distinct non-empty titles in catalog order.
func (ix *Index) Titles() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Recommend returns up to k items most similar to the item with the given
// ID, best first. Ties keep catalog order and the query item is never
// included. k <= 0 yields an empty, non-nil slice.
func (ix *Index) Recommend(id string, k int) ([]ScoredItem, error) {
	row, ok := ix.rows[id]
	if !ok {
		return nil, &NotFoundError{ID: id, Lookup: LookupID}
	}
	return ix.recommendRow(row, k)
}

func (ix *Index) recommendRow(row, k int) ([]ScoredItem, error) {
	neighbors, err := ix.vs.Neighbors(row, k)
	if err != nil {
		return nil, err
	}

	out := make([]ScoredItem, len(neighbors))
	for i, n := range neighbors {
		out[i] = ScoredItem{Item: ix.items[n.Row], Score: n.Score}
	}
	return out, nil
}
