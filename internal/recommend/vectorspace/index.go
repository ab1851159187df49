// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package vectorspace

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmptyCorpus is returned by Build when there are no documents.
	ErrEmptyCorpus = errors.New("vectorspace: corpus has no documents")

	// ErrRowOutOfRange is returned when a query names a row the index does not hold.
	ErrRowOutOfRange = errors.New("vectorspace: row out of range")

	// ErrInvalidSnapshot is returned by FromSnapshot for inconsistent snapshots.
	ErrInvalidSnapshot = errors.New("vectorspace: invalid snapshot")
)

// Neighbor is a scored row returned by Neighbors.
type Neighbor struct {
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// Index is an immutable TF-IDF vector space. Rows are unit-normalized
// (or zero), so cosine similarity is a plain dot product.
type Index struct {
	terms   []string
	docFreq []int
	norms   []float64
	vectors []Vector
}

// Build tokenizes documents and computes one normalized TF-IDF vector per
// document, in document order.
func Build(documents []string, tok *Tokenizer) (*Index, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}
	if tok == nil {
		tok = NewTokenizer(DefaultTokenizerConfig())
	}

	ix := &Index{
		norms:   make([]float64, len(documents)),
		vectors: make([]Vector, len(documents)),
	}

	// Pass 1: vocabulary in first-seen order and per-document term counts.
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(documents))
	lengths := make([]int, len(documents))
	for d, doc := range documents {
		tokens := tok.Tokenize(doc)
		lengths[d] = len(tokens)
		c := make(map[int]int, len(tokens))
		for _, token := range tokens {
			id, ok := vocab[token]
			if !ok {
				id = len(ix.terms)
				vocab[token] = id
				ix.terms = append(ix.terms, token)
				ix.docFreq = append(ix.docFreq, 0)
			}
			if c[id] == 0 {
				ix.docFreq[id]++
			}
			c[id]++
		}
		counts[d] = c
	}

	// Pass 2: smooth idf over the whole corpus.
	n := float64(len(documents))
	idf := make([]float64, len(ix.terms))
	for t, df := range ix.docFreq {
		idf[t] = math.Log((1+n)/(1+float64(df))) + 1
	}

	// Pass 3: tf * idf, then L2 normalization.
	for d, c := range counts {
		if lengths[d] == 0 {
			continue
		}
		vec := make(Vector, 0, len(c))
		for term, count := range c {
			tf := float64(count) / float64(lengths[d])
			vec = append(vec, Entry{Term: term, Weight: tf * idf[term]})
		}
		sort.Slice(vec, func(i, j int) bool { return vec[i].Term < vec[j].Term })

		norm := vec.Norm()
		ix.norms[d] = norm
		if norm == 0 {
			continue
		}
		for i := range vec {
			vec[i].Weight /= norm
		}
		ix.vectors[d] = vec
	}

	return ix, nil
}

// Len returns the number of rows (documents).
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Terms returns the vocabulary size.
func (ix *Index) Terms() int {
	return len(ix.terms)
}

// Vector returns the normalized vector of row. The returned slice must not
// be modified.
func (ix *Index) Vector(row int) (Vector, error) {
	if row < 0 || row >= len(ix.vectors) {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return ix.vectors[row], nil
}

// Neighbors ranks every other row by similarity to row and returns the first
// k. Equal scores keep row order. The query row is never included.
func (ix *Index) Neighbors(row, k int) ([]Neighbor, error) {
	query, err := ix.Vector(row)
	if err != nil {
		return nil, err
	}
	if k <= 0 || len(ix.vectors) < 2 {
		return []Neighbor{}, nil
	}

	scored := make([]Neighbor, 0, len(ix.vectors)-1)
	for other, vec := range ix.vectors {
		if other == row {
			continue
		}
		var score float64
		if !query.IsZero() && !vec.IsZero() {
			score = clampScore(query.Dot(vec))
		}
		scored = append(scored, Neighbor{Row: other, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// clampScore absorbs rounding that pushes a unit-vector dot product past 1.
func clampScore(s float64) float64 {
	switch {
	case s < 0 || math.IsNaN(s):
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
