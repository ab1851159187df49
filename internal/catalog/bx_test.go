// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package catalog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const bxHeader = `"ISBN";"Book-Title";"Book-Author";"Year-Of-Publication";"Publisher";"Image-URL-S";"Image-URL-M";"Image-URL-L"` + "\n"

func bxRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ";") + "\n"
}

func TestParse_Basic(t *testing.T) {
	t.Parallel()

	input := bxHeader +
		bxRow("0195153448", "Classical Mythology", "Mark P. O. Morford", "2002", "Oxford University Press", "s", "http://m/1.jpg", "l") +
		bxRow("0002005018", "Clara Callan", "Richard Bruce Wright", "2001", "HarperFlamingo Canada", "s", "http://m/2.jpg", "l")

	items, stats, err := Parse(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.ID != "0195153448" || first.Title != "Classical Mythology" || first.Author != "Mark P. O. Morford" {
		t.Errorf("first item = %+v", first)
	}
	if first.Year != 2002 || first.Publisher != "Oxford University Press" || first.ImageURL != "http://m/1.jpg" {
		t.Errorf("first item = %+v", first)
	}
	if stats.Rows != 2 || stats.Accepted != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestParse_Latin1(t *testing.T) {
	t.Parallel()

	// "Café" with é encoded as the single Latin-1 byte 0xE9.
	var buf bytes.Buffer
	buf.WriteString(bxHeader)
	buf.WriteString(`"1";"Caf`)
	buf.WriteByte(0xE9)
	buf.WriteString(`";"Author";"1999";"Pub";"";"";""` + "\n")

	items, _, err := Parse(&buf, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Café" {
		t.Errorf("items = %+v, want title Café", items)
	}
}

func TestParse_SkipsBadRows(t *testing.T) {
	t.Parallel()

	input := bxHeader +
		bxRow("1", "Good One", "A", "1990", "P", "", "", "") +
		`"2";"Too Few";"A"` + "\n" +
		bxRow("", "No ISBN", "A", "1990", "P", "", "", "") +
		bxRow("1", "Duplicate", "B", "1991", "Q", "", "", "") +
		bxRow("3", "Bad Year", "C", "DK Publishing Inc", "R", "", "", "") +
		bxRow("4", "Extra", "D", "1990", "P", "", "", "", "surplus")

	items, stats, err := Parse(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(items) != 2 || items[0].ID != "1" || items[1].ID != "3" {
		t.Fatalf("items = %+v, want ISBNs 1 and 3", items)
	}
	if items[0].Title != "Good One" {
		t.Errorf("duplicate replaced first occurrence: %q", items[0].Title)
	}
	if items[1].Year != 0 {
		t.Errorf("unparsable year = %d, want 0", items[1].Year)
	}

	want := LoadStats{Rows: 6, Accepted: 2, Skipped: 3, Duplicates: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestParse_MaxItems(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString(bxHeader)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		sb.WriteString(bxRow(id, "Title "+id, "A", "2000", "P", "", "", ""))
	}

	items, stats, err := Parse(strings.NewReader(sb.String()), Options{MaxItems: 3})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 3 || items[2].ID != "c" {
		t.Errorf("items = %+v, want first three", items)
	}
	if stats.Truncated != 2 || stats.Accepted != 3 {
		t.Errorf("stats = %+v", stats)
	}

	all, _, _ := Parse(strings.NewReader(sb.String()), Options{MaxItems: 0})
	if len(all) != 5 {
		t.Errorf("MaxItems 0 kept %d items, want all 5", len(all))
	}
}

func TestParse_HeaderByName(t *testing.T) {
	t.Parallel()

	input := "Publisher;isbn;Book-Title\nAce;42;Dune\n"
	items, _, err := Parse(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	got := items[0]
	if got.ID != "42" || got.Title != "Dune" || got.Publisher != "Ace" || got.Author != "" || got.Year != 0 {
		t.Errorf("item = %+v", got)
	}
}

func TestParse_MissingISBNColumn(t *testing.T) {
	t.Parallel()

	_, _, err := Parse(strings.NewReader("Book-Title;Book-Author\nDune;Herbert\n"), DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", err)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	items, stats, err := Parse(strings.NewReader(""), DefaultOptions())
	if err != nil || len(items) != 0 || stats.Rows != 0 {
		t.Errorf("Parse(empty) = %v, %+v, %v", items, stats, err)
	}
}
