// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/metrics"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// statsRecorder remembers the stats of the last load.
type statsRecorder struct {
	mu    sync.Mutex
	stats LoadStats
}

func (s *statsRecorder) record(name string, stats LoadStats) {
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	metrics.RecordCatalogLoad(stats.Accepted, stats.Skipped, stats.Duplicates, stats.Truncated)
	logging.Info().
		Str("source", name).
		Int("rows", stats.Rows).
		Int("accepted", stats.Accepted).
		Int("skipped", stats.Skipped).
		Int("duplicates", stats.Duplicates).
		Int("truncated", stats.Truncated).
		Msg("Catalog loaded")
}

// LastStats returns the stats of the most recent successful load.
func (s *statsRecorder) LastStats() LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// FileSource loads a catalog from a local file.
type FileSource struct {
	statsRecorder
	path string
	opts Options
}

// NewFileSource creates a source reading path.
func NewFileSource(path string, opts Options) *FileSource {
	return &FileSource{path: path, opts: opts}
}

// Path returns the catalog file path.
func (s *FileSource) Path() string {
	return s.path
}

// Name implements recommend.CatalogSource.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load implements recommend.CatalogSource.
func (s *FileSource) Load(ctx context.Context) ([]recommend.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	items, stats, err := Parse(f, s.opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.record(s.Name(), stats)
	return items, nil
}

// DefaultMaxBodyBytes bounds a remote catalog download.
const DefaultMaxBodyBytes = 256 << 20

// ErrBodyTooLarge is returned when a remote catalog exceeds the size limit.
var ErrBodyTooLarge = errors.New("catalog: response body exceeds size limit")

// HTTPSource fetches a catalog over HTTP. Requests go through a circuit
// breaker so a failing mirror is not hammered by periodic rebuilds.
type HTTPSource struct {
	statsRecorder
	url      string
	opts     Options
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[]recommend.Item]
	name     string
	maxBytes int64
}

// NewHTTPSource creates a source fetching url. A nil client uses one with a
// 60 second timeout.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 3 consecutive failures
func NewHTTPSource(url string, opts Options, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	name := "catalog-http"

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]recommend.Item](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= 3
			if shouldTrip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := from.String(), to.String()
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &HTTPSource{
		url:      url,
		opts:     opts,
		client:   client,
		cb:       cb,
		name:     name,
		maxBytes: DefaultMaxBodyBytes,
	}
}

// Name implements recommend.CatalogSource.
func (s *HTTPSource) Name() string {
	return s.url
}

// State returns the circuit breaker state.
func (s *HTTPSource) State() gobreaker.State {
	return s.cb.State()
}

// Load implements recommend.CatalogSource.
func (s *HTTPSource) Load(ctx context.Context) ([]recommend.Item, error) {
	items, err := s.cb.Execute(func() ([]recommend.Item, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		if isBreakerRejection(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	return items, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]recommend.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > s.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrBodyTooLarge, resp.ContentLength, s.maxBytes)
	}

	items, stats, err := Parse(&cappedReader{r: resp.Body, remaining: s.maxBytes}, s.opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.url, err)
	}
	s.record(s.url, stats)
	return items, nil
}

// cappedReader passes through at most remaining bytes and fails with
// ErrBodyTooLarge if the underlying reader has more.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		var one [1]byte
		n, err := c.r.Read(one[:])
		if n > 0 {
			return 0, ErrBodyTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// stateToFloat converts circuit breaker state to a numeric value for metrics.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
