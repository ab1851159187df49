// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/bookmatch/internal/recommend"
)

// Header names of the BX-Books layout.
const (
	ColumnISBN      = "ISBN"
	ColumnTitle     = "Book-Title"
	ColumnAuthor    = "Book-Author"
	ColumnYear      = "Year-Of-Publication"
	ColumnPublisher = "Publisher"
	ColumnImage     = "Image-URL-M"
)

// DefaultMaxItems bounds the catalog kept in memory.
const DefaultMaxItems = 5000

// ErrMissingColumn is returned when the header lacks the ISBN column.
var ErrMissingColumn = errors.New("catalog: required column missing")

// Options controls parsing.
type Options struct {
	// MaxItems keeps only the first N accepted rows. 0 means unlimited.
	MaxItems int

	// Latin1 decodes the input as ISO-8859-1. Default: true
	Latin1 bool
}

// DefaultOptions returns the options for the public BX-Books dump.
func DefaultOptions() Options {
	return Options{MaxItems: DefaultMaxItems, Latin1: true}
}

// LoadStats counts what happened to each data row.
type LoadStats struct {
	// Rows is the number of data rows read, malformed ones included.
	Rows int `json:"rows"`
	// Accepted rows became catalog items.
	Accepted int `json:"accepted"`
	// Skipped rows were malformed or had no ISBN.
	Skipped int `json:"skipped"`
	// Duplicates repeated an ISBN already accepted.
	Duplicates int `json:"duplicates"`
	// Truncated rows were valid but beyond MaxItems.
	Truncated int `json:"truncated"`
}

// columns maps header names to field positions; -1 marks an absent column.
type columns struct {
	isbn, title, author, year, publisher, image int
}

func resolveColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		pos[strings.ToLower(h)] = i
	}
	get := func(name string) int {
		if i, ok := pos[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		isbn:      get(ColumnISBN),
		title:     get(ColumnTitle),
		author:    get(ColumnAuthor),
		year:      get(ColumnYear),
		publisher: get(ColumnPublisher),
		image:     get(ColumnImage),
	}
	if cols.isbn < 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnISBN)
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Parse reads a BX-Books catalog. Items keep file order; the first row for
// each ISBN wins. Only an unreadable header or an I/O failure is an error.
func Parse(r io.Reader, opts Options) ([]recommend.Item, LoadStats, error) {
	var stats LoadStats

	if opts.Latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	width := len(header)
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, stats, err
	}

	var items []recommend.Item
	seen := make(map[string]struct{})

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Rows++
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read catalog: %w", err)
		}

		stats.Rows++
		if len(record) != width {
			stats.Skipped++
			continue
		}

		isbn := field(record, cols.isbn)
		if isbn == "" {
			stats.Skipped++
			continue
		}
		if _, dup := seen[isbn]; dup {
			stats.Duplicates++
			continue
		}
		if opts.MaxItems > 0 && len(items) >= opts.MaxItems {
			stats.Truncated++
			continue
		}
		seen[isbn] = struct{}{}

		year, _ := strconv.Atoi(field(record, cols.year))
		items = append(items, recommend.Item{
			ID:        isbn,
			Title:     field(record, cols.title),
			Author:    field(record, cols.author),
			Publisher: field(record, cols.publisher),
			Year:      year,
			ImageURL:  field(record, cols.image),
		})
	}

	stats.Accepted = len(items)
	return items, stats, nil
}
