// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package popularity

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/metrics"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// ErrNoRatings is returned by Top before any ratings were loaded.
var ErrNoRatings = errors.New("popularity: no ratings loaded")

// insertBatchSize is the number of rows per multi-row INSERT.
const insertBatchSize = 500

// Config controls the popularity store.
type Config struct {
	// RatingsPath is the BX-Book-Ratings file. Empty disables the feature.
	RatingsPath string `koanf:"ratings_path"`

	// MinRatings is the minimum number of ratings a book needs to be ranked.
	MinRatings int `koanf:"min_ratings"`

	// Limit is the default chart length.
	Limit int `koanf:"limit"`

	// Threads bounds DuckDB worker threads. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// DefaultConfig returns the defaults used for the "Top 50" chart.
func DefaultConfig() Config {
	return Config{MinRatings: 50, Limit: 50}
}

// Book is a catalog item with its rating aggregate.
type Book struct {
	recommend.Item
	NumRatings int     `json:"num_ratings"`
	AvgRating  float64 `json:"avg_rating"`
}

// Store holds ratings and the catalog in an in-memory DuckDB database.
// It is safe for concurrent use.
type Store struct {
	conn   *sql.DB
	cfg    Config
	mu     sync.RWMutex // guards table replacement against queries
	loaded int
}

// Open creates an in-memory DuckDB database with empty tables.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Auto-install is disabled so a restricted network cannot stall startup.
	connStr := fmt.Sprintf(":memory:?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", threads)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn, cfg: cfg}
	if err := s.createSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id VARCHAR NOT NULL,
			isbn    VARCHAR NOT NULL,
			rating  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			isbn      VARCHAR PRIMARY KEY,
			title     VARCHAR,
			author    VARCHAR,
			publisher VARCHAR,
			year      INTEGER,
			image_url VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Rating is one row of the ratings file.
type Rating struct {
	UserID string
	ISBN   string
	Rating int
}

// ParseRatings reads a ';' separated, Latin-1 encoded ratings file with the
// header User-ID;ISBN;Book-Rating. Malformed rows are skipped and counted.
func ParseRatings(r io.Reader) (ratings []Rating, skipped int, err error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	userCol, isbnCol, ratingCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "user-id":
			userCol = i
		case "isbn":
			isbnCol = i
		case "book-rating":
			ratingCol = i
		}
	}
	if userCol < 0 || isbnCol < 0 || ratingCol < 0 {
		return nil, 0, errors.New("ratings header must name User-ID, ISBN and Book-Rating")
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read ratings: %w", err)
		}
		if len(rec) != len(header) {
			skipped++
			continue
		}
		isbn := strings.TrimSpace(rec[isbnCol])
		value, convErr := strconv.Atoi(strings.TrimSpace(rec[ratingCol]))
		if isbn == "" || convErr != nil {
			skipped++
			continue
		}
		ratings = append(ratings, Rating{UserID: strings.TrimSpace(rec[userCol]), ISBN: isbn, Rating: value})
	}
	return ratings, skipped, nil
}

// LoadRatingsFile replaces the ratings table with the contents of path.
func (s *Store) LoadRatingsFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()

	ratings, skipped, err := ParseRatings(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.ReplaceRatings(ctx, ratings); err != nil {
		return err
	}

	logging.Info().
		Str("path", path).
		Int("ratings", len(ratings)).
		Int("skipped", skipped).
		Msg("Ratings loaded")
	return nil
}

// ReplaceRatings swaps the ratings table contents in one transaction.
func (s *Store) ReplaceRatings(ctx context.Context, ratings []Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.replace(ctx, "ratings", 3, len(ratings), func(i int) []any {
		r := ratings[i]
		return []any{r.UserID, r.ISBN, r.Rating}
	})
	if err != nil {
		return fmt.Errorf("replace ratings: %w", err)
	}

	s.loaded = len(ratings)
	metrics.RatingsLoaded.Set(float64(len(ratings)))
	return nil
}

// RefreshCatalog loads src and replaces the books table with its items. The
// chart ranks every book in src, so src should not truncate the catalog.
func (s *Store) RefreshCatalog(ctx context.Context, src recommend.CatalogSource) error {
	items, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}
	if err := s.SetCatalog(ctx, items); err != nil {
		return err
	}
	logging.Debug().
		Str("source", src.Name()).
		Int("books", len(items)).
		Msg("Popularity catalog refreshed")
	return nil
}

// SetCatalog replaces the books table. Duplicate ISBNs keep the first item.
func (s *Store) SetCatalog(ctx context.Context, items []recommend.Item) error {
	unique := make([]recommend.Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if _, dup := seen[items[i].ID]; dup {
			continue
		}
		seen[items[i].ID] = struct{}{}
		unique = append(unique, items[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.replace(ctx, "books", 6, len(unique), func(i int) []any {
		it := unique[i]
		return []any{it.ID, it.Title, it.Author, it.Publisher, it.Year, it.ImageURL}
	})
	if err != nil {
		return fmt.Errorf("replace books: %w", err)
	}
	return nil
}

// replace deletes every row of table and inserts n rows produced by row,
// batching them into multi-row INSERT statements. Must be called with mu held.
func (s *Store) replace(ctx context.Context, table string, width, n int, row func(int) []any) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"
	for start := 0; start < n; start += insertBatchSize {
		end := min(start+insertBatchSize, n)

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*width)
		for i := start; i < end; i++ {
			values = append(values, placeholder)
			args = append(args, row(i)...)
		}

		query := "INSERT INTO " + table + " VALUES " + strings.Join(values, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const topQuery = `
SELECT b.isbn, b.title, b.author, b.publisher, b.year, b.image_url,
       r.num_ratings, r.avg_rating
FROM (
    SELECT isbn, COUNT(*) AS num_ratings, AVG(rating) AS avg_rating
    FROM ratings
    GROUP BY isbn
    HAVING COUNT(*) >= ?
) r
JOIN books b ON b.isbn = r.isbn
ORDER BY r.avg_rating DESC, r.isbn ASC
LIMIT ?`

// Top returns up to limit catalog books with at least minRatings ratings,
// ordered by mean rating (ties by ISBN). Non-positive arguments use the
// configured defaults.
func (s *Store) Top(ctx context.Context, minRatings, limit int) ([]Book, error) {
	if minRatings <= 0 {
		minRatings = s.cfg.MinRatings
	}
	if limit <= 0 {
		limit = s.cfg.Limit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loaded == 0 {
		return nil, ErrNoRatings
	}

	start := time.Now()
	defer func() {
		metrics.PopularityQueryDuration.Observe(time.Since(start).Seconds())
	}()

	rows, err := s.conn.QueryContext(ctx, topQuery, minRatings, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular books: %w", err)
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		var b Book
		var title, author, publisher, img sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&b.ID, &title, &author, &publisher, &year, &img, &b.NumRatings, &b.AvgRating); err != nil {
			return nil, fmt.Errorf("scan popular book: %w", err)
		}
		b.Title, b.Author, b.Publisher, b.ImageURL = title.String, author.String, publisher.String, img.String
		b.Year = int(year.Int64)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular books: %w", err)
	}
	return books, nil
}

// Loaded returns the number of ratings held.
func (s *Store) Loaded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}
