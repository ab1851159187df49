// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package snapshot persists built vector spaces in BadgerDB so a restart
// with an unchanged catalog skips the TF-IDF build.
//
// Snapshots are keyed by the corpus fingerprint (tokenizer settings plus the
// ordered composite documents), so a stored snapshot is only ever restored
// for the exact catalog it was built from.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/recommend/vectorspace"
)

// keyPrefix namespaces snapshot keys, versioned with the snapshot format.
const keyPrefix = "index:v1:"

// Config controls the snapshot store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps everything in memory (tests, ephemeral deployments).
	InMemory bool `koanf:"in_memory"`

	// TTL expires snapshots that have not been rewritten. 0 keeps them forever.
	TTL time.Duration `koanf:"ttl"`

	// SyncWrites fsyncs every write.
	SyncWrites bool `koanf:"sync_writes"`
}

// Enabled reports whether a store should be opened at all.
func (c *Config) Enabled() bool {
	return c.InMemory || c.Path != ""
}

// Store is a BadgerDB-backed recommend.IndexStore.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) the store described by cfg.
func Open(cfg *Config) (*Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("snapshot store: path is empty and in_memory is false")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.ValueLogFileSize = 64 << 20
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Msg("Snapshot store opened")

	return &Store{db: db, ttl: cfg.TTL}, nil
}

// NewFromDB wraps an existing BadgerDB handle.
func NewFromDB(db *badger.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func key(fingerprint string) []byte {
	return []byte(keyPrefix + fingerprint)
}

// Save stores snap under fingerprint, replacing any previous value.
func (s *Store) Save(ctx context.Context, fingerprint string, snap *vectorspace.Snapshot) error {
	if fingerprint == "" {
		return errors.New("snapshot fingerprint cannot be empty")
	}
	if snap == nil {
		return errors.New("snapshot cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key(fingerprint), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Load returns the snapshot stored under fingerprint. A missing key yields
// found=false and a nil error.
func (s *Store) Load(ctx context.Context, fingerprint string) (*vectorspace.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var snap vectorspace.Snapshot
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &snap, true, nil
}

// Delete removes the snapshot stored under fingerprint, if any.
func (s *Store) Delete(_ context.Context, fingerprint string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(fingerprint))
	})
}

// Fingerprints lists the stored snapshot keys.
func (s *Store) Fingerprints() ([]string, error) {
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Prune deletes every snapshot except keep. It returns the number removed.
func (s *Store) Prune(ctx context.Context, keep string) (int, error) {
	all, err := s.Fingerprints()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, fp := range all {
		if fp == keep {
			continue
		}
		if err := s.Delete(ctx, fp); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
