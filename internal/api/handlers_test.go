// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookmatch/internal/auth"
	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

var testBooks = []recommend.Item{
	{ID: "0439136350", Title: "Harry Potter and the Prisoner of Azkaban", Author: "J. K. Rowling", Publisher: "Scholastic", Year: 1999},
	{ID: "0439064872", Title: "Harry Potter and the Chamber of Secrets", Author: "J. K. Rowling", Publisher: "Scholastic", Year: 2000},
	{ID: "0345339681", Title: "The Hobbit", Author: "J.R.R. Tolkien", Publisher: "Del Rey", Year: 1986},
	{ID: "0425182908", Title: "Murder on the Orient Express", Author: "Agatha Christie", Publisher: "Berkley", Year: 2000},
	{ID: "0060928336", Title: "Divine Secrets of the Ya-Ya Sisterhood", Author: "Rebecca Wells", Publisher: "Perennial", Year: 1997},
}

// staticSource serves a fixed catalog.
type staticSource struct {
	mu    sync.Mutex
	items []recommend.Item
}

func (s *staticSource) Load(context.Context) ([]recommend.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recommend.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) set(items []recommend.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// fakeRebuilder returns a canned result.
type fakeRebuilder struct {
	report *recommend.BuildReport
	err    error
	calls  int
}

func (f *fakeRebuilder) RequestRebuild(context.Context, string) (*recommend.BuildReport, error) {
	f.calls++
	return f.report, f.err
}

// fakePopularity returns a canned chart.
type fakePopularity struct {
	books []popularity.Book
	err   error

	gotMin, gotLimit int
}

func (f *fakePopularity) Top(_ context.Context, minRatings, limit int) ([]popularity.Book, error) {
	f.gotMin, f.gotLimit = minRatings, limit
	return f.books, f.err
}

// newTestEngine returns an engine serving testBooks, or an unbuilt engine
// when build is false.
func newTestEngine(t *testing.T, build bool) (*recommend.Engine, *staticSource) {
	t.Helper()

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	src := &staticSource{items: testBooks}
	engine.SetCatalogSource(src)

	if build {
		if _, err := engine.Rebuild(context.Background()); err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
	}
	return engine, src
}

// newTestServer wires the full router with rate limiting disabled.
func newTestServer(t *testing.T, engine *recommend.Engine, deps HandlerDeps, guard *auth.Middleware) http.Handler {
	t.Helper()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(engine, deps), NewChiMiddleware(cfg), guard).Setup()
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeData(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
}

func TestSimilarByISBN(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/0439136350/similar?k=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	_, data := decodeEnvelope(t, rec)
	var resp recommend.Response
	decodeData(t, data, &resp)

	if resp.Query.ID != "0439136350" {
		t.Errorf("query = %s, want 0439136350", resp.Query.ID)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(resp.Items))
	}
	if resp.Items[0].Item.ID != "0439064872" {
		t.Errorf("top match = %s, want the other Harry Potter book", resp.Items[0].Item.ID)
	}
	for _, it := range resp.Items {
		if it.Item.ID == resp.Query.ID {
			t.Error("query item returned among its own neighbors")
		}
	}
	if resp.Metadata.K != 2 || resp.Metadata.Lookup != recommend.LookupID {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
}

func TestSimilarByISBN_Errors(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown isbn", "/api/v1/books/9999999999/similar", http.StatusNotFound, ErrCodeNotFound},
		{"non-numeric k", "/api/v1/books/0439136350/similar?k=abc", http.StatusBadRequest, ErrCodeValidationFailed},
		{"isbn too long", "/api/v1/books/" + url.PathEscape("012345678901234567890123456789012") + "/similar", http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, srv, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			resp, _ := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestSimilarByISBN_NotFoundDetails(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/0000000000/similar")
	resp, _ := decodeEnvelope(t, rec)

	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %#v", resp.Error.Details)
	}
	if details["lookup"] != "id" || details["key"] != "0000000000" {
		t.Errorf("details = %v", details)
	}
}

func TestSimilarByISBN_ZeroK(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/0439136350/similar?k=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	_, data := decodeEnvelope(t, rec)
	var resp recommend.Response
	decodeData(t, data, &resp)
	if len(resp.Items) != 0 {
		t.Errorf("got %d items for k=0", len(resp.Items))
	}
}

func TestSimilarByTitle(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"exact title", "title=" + url.QueryEscape("The Hobbit") + "&k=3", http.StatusOK},
		{"unknown title", "title=" + url.QueryEscape("The Silmarillion"), http.StatusNotFound},
		{"missing title", "k=3", http.StatusBadRequest},
		{"blank title", "title=" + url.QueryEscape("   "), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, srv, http.MethodGet, "/api/v1/books/similar?"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			_, data := decodeEnvelope(t, rec)
			var resp recommend.Response
			decodeData(t, data, &resp)
			if resp.Query.ID != "0345339681" || resp.Metadata.Lookup != recommend.LookupTitle {
				t.Errorf("query = %s lookup = %s", resp.Query.ID, resp.Metadata.Lookup)
			}
			if len(resp.Items) != 3 {
				t.Errorf("got %d items, want 3", len(resp.Items))
			}
		})
	}
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/0425182908")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	_, data := decodeEnvelope(t, rec)
	var item recommend.Item
	decodeData(t, data, &item)
	if item.Author != "Agatha Christie" {
		t.Errorf("author = %q", item.Author)
	}

	if rec := do(t, srv, http.MethodGet, "/api/v1/books/1111111111"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown book status = %d, want 404", rec.Code)
	}
}

func TestTitles(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/titles")
	resp, data := decodeEnvelope(t, rec)

	var titles []string
	decodeData(t, data, &titles)
	if len(titles) != len(testBooks) || titles[0] != testBooks[0].Title {
		t.Errorf("titles = %v", titles)
	}
	if resp.Meta.Count == nil || *resp.Meta.Count != len(testBooks) {
		t.Errorf("count = %v", resp.Meta.Count)
	}
}

func TestPopular(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, engine, HandlerDeps{}, nil)
		rec := do(t, srv, http.MethodGet, "/api/v1/books/popular")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("chart", func(t *testing.T) {
		t.Parallel()
		pop := &fakePopularity{books: []popularity.Book{
			{Item: testBooks[0], NumRatings: 571, AvgRating: 4.9},
		}}
		srv := newTestServer(t, engine, HandlerDeps{Popularity: pop}, nil)

		rec := do(t, srv, http.MethodGet, "/api/v1/books/popular?limit=10&min_ratings=50")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if pop.gotMin != 50 || pop.gotLimit != 10 {
			t.Errorf("Top called with (%d, %d), want (50, 10)", pop.gotMin, pop.gotLimit)
		}
		_, data := decodeEnvelope(t, rec)
		var books []popularity.Book
		decodeData(t, data, &books)
		if len(books) != 1 || books[0].NumRatings != 571 || books[0].ID != testBooks[0].ID {
			t.Errorf("books = %+v", books)
		}
	})

	t.Run("no ratings loaded", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, engine, HandlerDeps{Popularity: &fakePopularity{err: popularity.ErrNoRatings}}, nil)
		rec := do(t, srv, http.MethodGet, "/api/v1/books/popular")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("limit out of range", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, engine, HandlerDeps{Popularity: &fakePopularity{}}, nil)
		rec := do(t, srv, http.MethodGet, "/api/v1/books/popular?limit=5000")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGenres(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/genres")
	_, data := decodeEnvelope(t, rec)
	var genres []recommend.Genre
	decodeData(t, data, &genres)
	if len(genres) != len(recommend.Genres()) {
		t.Errorf("got %d genres, want %d", len(genres), len(recommend.Genres()))
	}
}

func TestGenreBooks(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{"fantasy", "/api/v1/genres/Fantasy/books", http.StatusOK, 3},
		{"case insensitive", "/api/v1/genres/fantasy/books", http.StatusOK, 3},
		{"sampled", "/api/v1/genres/Fantasy/books?n=2&seed=7", http.StatusOK, 2},
		{"mystery", "/api/v1/genres/Mystery/books", http.StatusOK, 1},
		{"unknown genre", "/api/v1/genres/Westerns/books", http.StatusNotFound, 0},
		{"negative n", "/api/v1/genres/Fantasy/books?n=-1", http.StatusBadRequest, 0},
		{"bad seed", "/api/v1/genres/Fantasy/books?seed=x", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, srv, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			_, data := decodeEnvelope(t, rec)
			var books []recommend.Item
			decodeData(t, data, &books)
			if len(books) != tt.wantCount {
				t.Errorf("got %d books, want %d", len(books), tt.wantCount)
			}
		})
	}
}

func TestIndexLifecycle(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/index/status")
	_, data := decodeEnvelope(t, rec)
	var status recommend.Status
	decodeData(t, data, &status)
	if !status.Ready || status.Items != len(testBooks) {
		t.Fatalf("status = %+v", status)
	}

	if rec := do(t, srv, http.MethodPost, "/api/v1/index/invalidate"); rec.Code != http.StatusOK {
		t.Fatalf("invalidate status = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/books/0439136350/similar")
	resp, _ := decodeEnvelope(t, rec)
	if rec.Code != http.StatusServiceUnavailable || resp.Error.Code != ErrCodeIndexNotReady {
		t.Errorf("after invalidate: status = %d error = %+v", rec.Code, resp.Error)
	}
	if rec := do(t, srv, http.MethodGet, "/health/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready after invalidate = %d, want 503", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/index/rebuild")
	if rec.Code != http.StatusOK {
		t.Fatalf("rebuild status = %d, body %s", rec.Code, rec.Body.String())
	}
	_, data = decodeEnvelope(t, rec)
	var report recommend.BuildReport
	decodeData(t, data, &report)
	if report.Items != len(testBooks) || report.Version < 2 {
		t.Errorf("report = %+v", report)
	}

	if rec := do(t, srv, http.MethodGet, "/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("ready after rebuild = %d, want 200", rec.Code)
	}
}

func TestRebuildIndex_Outcomes(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, true)

	tests := []struct {
		name       string
		rebuilder  *fakeRebuilder
		wantStatus int
	}{
		{"completed", &fakeRebuilder{report: &recommend.BuildReport{Version: 9, Items: 5}}, http.StatusOK},
		{"deferred", &fakeRebuilder{}, http.StatusAccepted},
		{"busy", &fakeRebuilder{err: recommend.ErrRebuildInProgress}, http.StatusConflict},
		{"empty catalog", &fakeRebuilder{err: &recommend.EmptyCatalogError{Source: "static"}}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, engine, HandlerDeps{Rebuilder: tt.rebuilder}, nil)
			rec := do(t, srv, http.MethodPost, "/api/v1/index/rebuild")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.rebuilder.calls != 1 {
				t.Errorf("rebuilder called %d times", tt.rebuilder.calls)
			}
		})
	}
}

func TestRebuildIndex_EmptyCatalog(t *testing.T) {
	t.Parallel()

	engine, src := newTestEngine(t, true)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	src.set(nil)
	rec := do(t, srv, http.MethodPost, "/api/v1/index/rebuild")
	resp, _ := decodeEnvelope(t, rec)
	if rec.Code != http.StatusUnprocessableEntity || resp.Error.Code != ErrCodeEmptyCatalog {
		t.Errorf("status = %d error = %+v", rec.Code, resp.Error)
	}

	// The previous index keeps serving.
	if rec := do(t, srv, http.MethodGet, "/api/v1/books/0439136350/similar"); rec.Code != http.StatusOK {
		t.Errorf("similar after failed rebuild = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, false)
	srv := newTestServer(t, engine, HandlerDeps{}, nil)

	if rec := do(t, srv, http.MethodGet, "/health/live"); rec.Code != http.StatusOK {
		t.Errorf("live = %d, want 200", rec.Code)
	}

	rec := do(t, srv, http.MethodGet, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before build = %d, want 503", rec.Code)
	}
	resp, _ := decodeEnvelope(t, rec)
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok || details["ready"] != false {
		t.Errorf("details = %#v", resp.Error.Details)
	}
}
