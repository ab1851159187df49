// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package vectorspace

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// SnapshotVersion is bumped whenever the snapshot layout or the weighting
// formula changes, which invalidates every stored snapshot.
const SnapshotVersion = 1

// Snapshot is the serializable form of an Index.
type Snapshot struct {
	Version int       `json:"version"`
	Terms   []string  `json:"terms"`
	DocFreq []int     `json:"doc_freq"`
	Norms   []float64 `json:"norms"`
	Rows    []Vector  `json:"rows"`
}

// Snapshot copies the index into its serializable form.
func (ix *Index) Snapshot() *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		Terms:   append([]string(nil), ix.terms...),
		DocFreq: append([]int(nil), ix.docFreq...),
		Norms:   append([]float64(nil), ix.norms...),
		Rows:    make([]Vector, len(ix.vectors)),
	}
	for i, v := range ix.vectors {
		s.Rows[i] = append(Vector(nil), v...)
	}
	return s
}

// FromSnapshot rebuilds an Index from a snapshot after checking it is
// internally consistent.
func FromSnapshot(s *Snapshot) (*Index, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidSnapshot, s.Version, SnapshotVersion)
	}
	if len(s.Rows) == 0 {
		return nil, ErrEmptyCorpus
	}
	if len(s.DocFreq) != len(s.Terms) {
		return nil, fmt.Errorf("%w: %d terms but %d document frequencies", ErrInvalidSnapshot, len(s.Terms), len(s.DocFreq))
	}
	if len(s.Norms) != len(s.Rows) {
		return nil, fmt.Errorf("%w: %d rows but %d norms", ErrInvalidSnapshot, len(s.Rows), len(s.Norms))
	}

	ix := &Index{
		terms:   append([]string(nil), s.Terms...),
		docFreq: append([]int(nil), s.DocFreq...),
		norms:   append([]float64(nil), s.Norms...),
		vectors: make([]Vector, len(s.Rows)),
	}
	seen := make(map[string]struct{}, len(ix.terms))
	for _, term := range ix.terms {
		if _, dup := seen[term]; dup {
			return nil, fmt.Errorf("%w: duplicate term %q", ErrInvalidSnapshot, term)
		}
		seen[term] = struct{}{}
	}
	for i, row := range s.Rows {
		if !row.sorted(len(ix.terms)) {
			return nil, fmt.Errorf("%w: row %d is not a sorted non-negative vector", ErrInvalidSnapshot, i)
		}
		if len(row) > 0 {
			ix.vectors[i] = append(Vector(nil), row...)
		}
	}

	return ix, nil
}

// Fingerprint identifies a corpus together with the tokenizer settings that
// would index it. Equal fingerprints produce identical indexes.
func Fingerprint(cfg TokenizerConfig, documents []string) string {
	h := sha256.New()
	var lenBuf [8]byte

	writeField := func(s string) {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}

	writeField(fmt.Sprintf("v%d", SnapshotVersion))
	writeField(cfg.Signature())
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(documents)))
	h.Write(lenBuf[:])
	for _, doc := range documents {
		writeField(doc)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Equal reports whether two indexes hold bit-identical vectors and the same
// vocabulary.
func (ix *Index) Equal(o *Index) bool {
	if ix == nil || o == nil {
		return ix == o
	}
	if len(ix.terms) != len(o.terms) || len(ix.vectors) != len(o.vectors) {
		return false
	}
	for i := range ix.terms {
		if ix.terms[i] != o.terms[i] || ix.docFreq[i] != o.docFreq[i] {
			return false
		}
	}
	for i := range ix.vectors {
		a, b := ix.vectors[i], o.vectors[i]
		if len(a) != len(b) || math.Float64bits(ix.norms[i]) != math.Float64bits(o.norms[i]) {
			return false
		}
		for j := range a {
			if a[j].Term != b[j].Term || math.Float64bits(a[j].Weight) != math.Float64bits(b[j].Weight) {
				return false
			}
		}
	}
	return true
}
