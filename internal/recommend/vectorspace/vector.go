// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package vectorspace

import "math"

// Entry is one non-zero weight of a sparse vector.
type Entry struct {
	Term   int     `json:"t"`
	Weight float64 `json:"w"`
}

// Vector is a sparse document vector sorted by ascending term index.
// A nil or empty Vector is the zero vector.
type Vector []Entry

// IsZero reports whether v has no non-zero weights.
func (v Vector) IsZero() bool {
	return len(v) == 0
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, e := range v {
		sum += e.Weight * e.Weight
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two term-sorted vectors.
// Terms are visited in ascending order so the sum is reproducible.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(o) {
		switch {
		case v[i].Term == o[j].Term:
			sum += v[i].Weight * o[j].Weight
			i++
			j++
		case v[i].Term < o[j].Term:
			i++
		default:
			j++
		}
	}
	return sum
}

// sorted reports whether v is strictly ascending by term with non-negative weights.
func (v Vector) sorted(terms int) bool {
	prev := -1
	for _, e := range v {
		if e.Term <= prev || e.Term >= terms || e.Weight < 0 || math.IsNaN(e.Weight) {
			return false
		}
		prev = e.Term
	}
	return true
}
