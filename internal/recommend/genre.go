// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Genre is a keyword-defined slice of the catalog. A book belongs to a genre
// when its lowercased title contains any of the keywords.
type Genre struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

var genres = []Genre{
	{Name: "Fantasy", Keywords: []string{"magic", "wizard", "dragon", "fantasy", "ring", "harry potter", "lord of the rings", "hobbit", "witch"}},
	{Name: "Mystery", Keywords: []string{"mystery", "detective", "murder", "crime", "sherlock", "poirot", "investigation", "thriller"}},
	{Name: "Romance", Keywords: []string{"love", "romance", "kiss", "wedding", "bride", "heart"}},
	{Name: "Sci-Fi", Keywords: []string{"space", "planet", "alien", "galaxy", "star wars", "scifi", "sci-fi", "robot", "future"}},
	{Name: "Horror", Keywords: []string{"horror", "ghost", "vampire", "zombie", "scary", "haunted", "stephen king"}},
}

// Genres returns the browsable genres in display order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	for i, g := range genres {
		out[i] = Genre{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// LookupGenre finds a genre by name, ignoring case.
func LookupGenre(name string) (Genre, bool) {
	for _, g := range genres {
		if strings.EqualFold(g.Name, strings.TrimSpace(name)) {
			return g, true
		}
	}
	return Genre{}, false
}

// Matches reports whether title belongs to the genre.
//
//nolint:gocritic // Genre is small and read-only
func (g Genre) Matches(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range g.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// BrowseGenre returns up to n books whose titles match the named genre.
// When more than n match, a sample is drawn with a PRNG seeded by seed so the
// same seed always yields the same books. Results are in catalog order.
// n <= 0 uses genre.sample_size.
func (e *Engine) BrowseGenre(name string, n int, seed int64) ([]Item, error) {
	g, ok := LookupGenre(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenre, name)
	}

	ix, err := e.Current()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = e.config.Genre.SampleSize
	}
	return ix.browse(g, n, seed), nil
}

//nolint:gocritic // Genre is small and read-only
func (ix *Index) browse(g Genre, n int, seed int64) []Item {
	var rows []int
	for i := range ix.items {
		if g.Matches(ix.items[i].Title) {
			rows = append(rows, i)
		}
	}

	if len(rows) > n {
		rng := rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not security
		picked := rng.Perm(len(rows))[:n]
		sort.Ints(picked)
		sampled := make([]int, n)
		for i, p := range picked {
			sampled[i] = rows[p]
		}
		rows = sampled
	}

	out := make([]Item, len(rows))
	for i, r := range rows {
		out[i] = ix.items[r]
	}
	return out
}
