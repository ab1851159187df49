// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestGenre_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		genre string
		title string
		want  bool
	}{
		{"Fantasy", "Harry Potter and the Goblet of Fire", true},
		{"Fantasy", "The WIZARD of Oz", true},
		{"Fantasy", "Cooking Basics", false},
		{"Mystery", "Murder on the Orient Express", true},
		{"Romance", "Heart of Darkness", true},
		{"Sci-Fi", "Star Wars: Heir to the Empire", true},
		{"Horror", "Haunted", true},
		{"Horror", "Dune", false},
	}

	for _, tt := range tests {
		t.Run(tt.genre+"/"+tt.title, func(t *testing.T) {
			t.Parallel()
			g, ok := LookupGenre(tt.genre)
			if !ok {
				t.Fatalf("LookupGenre(%q) not found", tt.genre)
			}
			if got := g.Matches(tt.title); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestLookupGenre(t *testing.T) {
	t.Parallel()

	if g, ok := LookupGenre(" sci-fi "); !ok || g.Name != "Sci-Fi" {
		t.Errorf("LookupGenre(sci-fi) = %+v, %v", g, ok)
	}
	if _, ok := LookupGenre("Poetry"); ok {
		t.Error("LookupGenre(Poetry) found a genre")
	}

	names := make([]string, 0, 5)
	for _, g := range Genres() {
		names = append(names, g.Name)
	}
	if fmt.Sprint(names) != "[Fantasy Mystery Romance Sci-Fi Horror]" {
		t.Errorf("Genres() = %v", names)
	}

	// Callers cannot mutate the package table.
	Genres()[0].Keywords[0] = "changed"
	if g, _ := LookupGenre("Fantasy"); g.Keywords[0] != "magic" {
		t.Error("Genres() exposed internal keywords")
	}
}

func genreCatalog(n int) []Item {
	items := make([]Item, 0, n+2)
	for i := 0; i < n; i++ {
		items = append(items, Item{ID: fmt.Sprintf("m%03d", i), Title: fmt.Sprintf("Murder Case %d", i), Author: "Author"})
	}
	items = append(items,
		Item{ID: "x1", Title: "Cooking Basics", Author: "Smith"},
		Item{ID: "x2", Title: "Garden Plans", Author: "Jones"},
	)
	return items
}

func TestEngine_BrowseGenre(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, genreCatalog(30))
	if _, err := e.BrowseGenre("Mystery", 5, 0); !errors.Is(err, ErrIndexNotReady) {
		t.Errorf("BrowseGenre before rebuild error = %v, want ErrIndexNotReady", err)
	}
	if _, err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	t.Run("unknown genre", func(t *testing.T) {
		t.Parallel()
		if _, err := e.BrowseGenre("Poetry", 5, 0); !errors.Is(err, ErrUnknownGenre) {
			t.Errorf("error = %v, want ErrUnknownGenre", err)
		}
	})

	t.Run("sample is reproducible and ordered", func(t *testing.T) {
		t.Parallel()
		a, err := e.BrowseGenre("mystery", 5, 7)
		if err != nil {
			t.Fatalf("BrowseGenre() error = %v", err)
		}
		b, _ := e.BrowseGenre("Mystery", 5, 7)
		if len(a) != 5 || fmt.Sprint(a) != fmt.Sprint(b) {
			t.Errorf("same seed gave different samples:\n%v\n%v", a, b)
		}
		for i := 1; i < len(a); i++ {
			if a[i-1].ID >= a[i].ID {
				t.Errorf("sample not in catalog order: %s before %s", a[i-1].ID, a[i].ID)
			}
		}

		c, _ := e.BrowseGenre("Mystery", 5, 8)
		if fmt.Sprint(a) == fmt.Sprint(c) {
			t.Log("different seeds produced the same sample")
		}
	})

	t.Run("fewer matches than n", func(t *testing.T) {
		t.Parallel()
		got, err := e.BrowseGenre("Mystery", 100, 1)
		if err != nil {
			t.Fatalf("BrowseGenre() error = %v", err)
		}
		if len(got) != 30 || got[0].ID != "m000" || got[29].ID != "m029" {
			t.Errorf("got %d items, want all 30 in order", len(got))
		}
	})

	t.Run("default sample size", func(t *testing.T) {
		t.Parallel()
		got, _ := e.BrowseGenre("Mystery", 0, 1)
		if len(got) != 10 {
			t.Errorf("len = %d, want genre.sample_size 10", len(got))
		}
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		got, err := e.BrowseGenre("Horror", 5, 1)
		if err != nil || len(got) != 0 {
			t.Errorf("BrowseGenre(Horror) = %v, %v", got, err)
		}
	})
}
