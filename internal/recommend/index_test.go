// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

func duneCatalog() []Item {
	return []Item{
		{ID: "A", Title: "Dune", Author: "Herbert", Publisher: "Ace"},
		{ID: "B", Title: "Dune Messiah", Author: "Herbert", Publisher: "Ace"},
		{ID: "C", Title: "Cooking Basics", Author: "Smith", Publisher: "Acme"},
	}
}

func sampleCatalog() []Item {
	return []Item{
		{ID: "0001", Title: "Harry Potter and the Sorcerer's Stone", Author: "J. K. Rowling", Publisher: "Scholastic", Year: 1998},
		{ID: "0002", Title: "Harry Potter and the Chamber of Secrets", Author: "J. K. Rowling", Publisher: "Scholastic", Year: 1999},
		{ID: "0003", Title: "The Hobbit", Author: "J. R. R. Tolkien", Publisher: "Houghton Mifflin", Year: 1937},
		{ID: "0004", Title: "The Fellowship of the Ring", Author: "J. R. R. Tolkien", Publisher: "Houghton Mifflin", Year: 1954},
		{ID: "0005", Title: "Murder on the Orient Express", Author: "Agatha Christie", Publisher: "HarperCollins", Year: 1934},
		{ID: "0006", Title: "The Murder of Roger Ackroyd", Author: "Agatha Christie", Publisher: "HarperCollins", Year: 1926},
		{ID: "0007", Title: "", Author: "", Publisher: ""},
		{ID: "0008", Title: "It", Author: "Stephen King", Publisher: "Viking", Year: 1986},
		{ID: "0009", Title: "The Shining", Author: "Stephen King", Publisher: "Doubleday", Year: 1977},
		{ID: "0010", Title: "The Hobbit", Author: "Tolkien", Publisher: "Ballantine", Year: 1986},
	}
}

func TestComposeFeatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want string
	}{
		{"all fields", Item{Title: "Dune", Author: "Frank Herbert", Publisher: "Ace"}, "Dune Frank Herbert Ace"},
		{"missing author", Item{Title: "Dune", Publisher: "Ace"}, "Dune  Ace"},
		{"all blank", Item{}, "  "},
		{"year ignored", Item{Title: "T", Author: "A", Publisher: "P", Year: 1999, ImageURL: "x"}, "T A P"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComposeFeatures(&tt.item); got != tt.want {
				t.Errorf("ComposeFeatures() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildIndex_EmptyCatalog(t *testing.T) {
	t.Parallel()

	_, err := BuildIndex(nil, nil)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("BuildIndex(nil) error = %v, want ErrEmptyCatalog", err)
	}
	var ece *EmptyCatalogError
	if !errors.As(err, &ece) {
		t.Errorf("error %T is not *EmptyCatalogError", err)
	}
}

func TestBuildIndex_DuplicateID(t *testing.T) {
	t.Parallel()

	items := append(duneCatalog(), Item{ID: "A", Title: "Another"})
	if _, err := BuildIndex(items, nil); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("error = %v, want ErrDuplicateID", err)
	}
}

func TestBuildIndex_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	items := duneCatalog()
	ix, err := BuildIndex(items, nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	items[0].Title = "Changed"

	got, _ := ix.Lookup("A")
	if got.Title != "Dune" {
		t.Errorf("index item changed with caller slice: %q", got.Title)
	}
	if got.CompositeText != "Dune Herbert Ace" {
		t.Errorf("CompositeText = %q", got.CompositeText)
	}
}

func TestIndex_Recommend_DuneExample(t *testing.T) {
	t.Parallel()

	ix, err := BuildIndex(duneCatalog(), nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	got, err := ix.Recommend("A", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Item.ID != "B" || got[1].Item.ID != "C" {
		t.Errorf("order = [%s %s], want [B C]", got[0].Item.ID, got[1].Item.ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("B score %v should exceed C score %v", got[0].Score, got[1].Score)
	}
	if got[1].Score != 0 {
		t.Errorf("C score = %v, want 0 (no shared terms)", got[1].Score)
	}
}

func TestIndex_Recommend_SingleItem(t *testing.T) {
	t.Parallel()

	ix, err := BuildIndex([]Item{{ID: "A", Title: "Only Book"}}, nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for _, k := range []int{-1, 0, 1, 5, 100} {
		got, err := ix.Recommend("A", k)
		if err != nil {
			t.Fatalf("Recommend(A, %d) error = %v", k, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Recommend(A, %d) = %v, want empty non-nil slice", k, got)
		}
	}
}

func TestIndex_Recommend_EmptyText(t *testing.T) {
	t.Parallel()

	items := sampleCatalog()
	ix, err := BuildIndex(items, nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	// The blank item scores 0 against every other query and sits in the zero tail.
	for _, q := range items {
		if q.ID == "0007" {
			continue
		}
		got, err := ix.Recommend(q.ID, ix.Len())
		if err != nil {
			t.Fatalf("Recommend(%s) error = %v", q.ID, err)
		}
		var blank *ScoredItem
		for i := range got {
			if got[i].Item.ID == "0007" {
				blank = &got[i]
			}
		}
		if blank == nil || blank.Score != 0 {
			t.Fatalf("Recommend(%s): blank item missing or scored %v", q.ID, blank)
		}
		if last := got[len(got)-1]; last.Score != 0 {
			t.Errorf("Recommend(%s): last score %v, want 0", q.ID, last.Score)
		}
	}

	// Querying the blank item itself is not an error; every score is 0.
	got, err := ix.Recommend("0007", 3)
	if err != nil {
		t.Fatalf("Recommend(blank) error = %v", err)
	}
	for i, s := range got {
		if s.Score != 0 {
			t.Errorf("blank query result %d score = %v, want 0", i, s.Score)
		}
	}
	// Ties keep catalog order.
	if len(got) != 3 || got[0].Item.ID != "0001" || got[1].Item.ID != "0002" || got[2].Item.ID != "0003" {
		t.Errorf("blank query order = %v, want catalog order", got)
	}
}

func TestIndex_Recommend_NotFound(t *testing.T) {
	t.Parallel()

	ix, err := BuildIndex(duneCatalog(), nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	_, err = ix.Recommend("missing", 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var nfe *NotFoundError
	if !errors.As(err, &nfe) || nfe.ID != "missing" {
		t.Errorf("NotFoundError = %+v", nfe)
	}

	// Unknown id wins over k <= 0.
	if _, err := ix.Recommend("missing", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recommend(missing, 0) error = %v, want ErrNotFound", err)
	}
}

func TestIndex_Recommend_Properties(t *testing.T) {
	t.Parallel()

	items := sampleCatalog()
	ix, err := BuildIndex(items, nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for _, q := range items {
		t.Run(q.ID, func(t *testing.T) {
			full, err := ix.Recommend(q.ID, len(items))
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(full) != len(items)-1 {
				t.Fatalf("len = %d, want %d", len(full), len(items)-1)
			}

			for i, s := range full {
				if s.Item.ID == q.ID {
					t.Errorf("result %d is the query item", i)
				}
				if s.Score < 0 || s.Score > 1 {
					t.Errorf("result %d score %v outside [0,1]", i, s.Score)
				}
				if i > 0 && s.Score > full[i-1].Score {
					t.Errorf("result %d score %v above previous %v", i, s.Score, full[i-1].Score)
				}
			}

			for k := 0; k < len(items); k++ {
				prefix, err := ix.Recommend(q.ID, k)
				if err != nil {
					t.Fatalf("Recommend(k=%d) error = %v", k, err)
				}
				for i := range prefix {
					if prefix[i] != full[i] {
						t.Fatalf("k=%d result %d = %+v, want %+v", k, i, prefix[i], full[i])
					}
				}
			}
		})
	}
}

func TestIndex_Recommend_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := BuildIndex(sampleCatalog(), nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	b, err := BuildIndex(sampleCatalog(), nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if !a.Space().Equal(b.Space()) {
		t.Fatal("two builds of the same catalog differ")
	}

	ra, _ := a.Recommend("0003", 5)
	rb, _ := b.Recommend("0003", 5)
	if fmt.Sprint(ra) != fmt.Sprint(rb) {
		t.Errorf("rankings differ:\n%v\n%v", ra, rb)
	}
}

func TestIndex_TitleLookup(t *testing.T) {
	t.Parallel()

	ix, err := BuildIndex(sampleCatalog(), nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	row, ok := ix.RowByTitle("The Hobbit")
	if !ok {
		t.Fatal("RowByTitle(The Hobbit) not found")
	}
	if item, _ := ix.Item(row); item.ID != "0003" {
		t.Errorf("first Hobbit = %s, want 0003", item.ID)
	}
	if _, ok := ix.RowByTitle("the hobbit"); ok {
		t.Error("title match should be exact")
	}

	titles := ix.Titles()
	if len(titles) != 8 {
		t.Errorf("distinct titles = %d, want 8", len(titles))
	}
	if titles[0] != "Harry Potter and the Sorcerer's Stone" || titles[2] != "The Hobbit" {
		t.Errorf("titles not in catalog order: %v", titles)
	}

	items := ix.Items()
	if len(items) != ix.Len() || items[0].ID != sampleCatalog()[0].ID {
		t.Errorf("Items() = %d items starting %s", len(items), items[0].ID)
	}
	items[0].Title = "mutated"
	if first, _ := ix.Item(0); first.Title == "mutated" {
		t.Error("Items() returned the index's own slice")
	}
}

func TestRestoreIndex(t *testing.T) {
	t.Parallel()

	items := sampleCatalog()
	built, err := BuildIndex(items, nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	restored, err := RestoreIndex(items, built.Space().Snapshot())
	if err != nil {
		t.Fatalf("RestoreIndex() error = %v", err)
	}
	if !restored.Space().Equal(built.Space()) {
		t.Error("restored vector space differs from built one")
	}

	if _, err := RestoreIndex(items[:3], built.Space().Snapshot()); !errors.Is(err, vectorspace.ErrInvalidSnapshot) {
		t.Errorf("row mismatch error = %v, want ErrInvalidSnapshot", err)
	}
}
