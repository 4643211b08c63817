// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package store persists per-user interests and preference vectors in
// BadgerDB.
//
// The recommendation engine's preference update is a pure function over a
// snapshot, so concurrent updates for the same user would lose writes
// without external serialization. The store owns that responsibility: a
// per-user mutex serializes every read-modify-write cycle, while reads and
// writes for different users proceed in parallel.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/metrics"
	"github.com/memezing/engine/internal/recommend"
)

const (
	prefsKeyPrefix     = "prefs:"
	interestsKeyPrefix = "interests:"

	gcDiscardRatio = 0.5
)

// Options configures the store.
type Options struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without persistence.
	InMemory bool

	// GCInterval is how often the value-log garbage collector runs while
	// Serve is active.
	GCInterval time.Duration
}

// Store is the BadgerDB-backed preference and interest store.
type Store struct {
	db         *badger.DB
	gcInterval time.Duration

	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

// Open opens the store.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("store path is required")
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	// Badger's own logger is noisy; everything relevant is logged here.
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", opts.Path, err)
	}

	gcInterval := opts.GCInterval
	if gcInterval <= 0 {
		gcInterval = 10 * time.Minute
	}

	return &Store{
		db:         db,
		gcInterval: gcInterval,
		userLocks:  make(map[string]*sync.Mutex),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// userLock returns the mutex serializing updates for one user.
func (s *Store) userLock(userID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// LoadPreferences returns a user's preference vector. Users without any
// stored preferences get an empty list, not an error.
func (s *Store) LoadPreferences(ctx context.Context, userID string) ([]recommend.UserPreference, error) {
	start := time.Now()
	prefs, err := loadJSON[[]recommend.UserPreference](s.db, prefsKeyPrefix+userID)
	metrics.RecordStoreOperation("load_prefs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load preferences for %s: %w", userID, err)
	}
	if prefs == nil {
		prefs = []recommend.UserPreference{}
	}
	return prefs, nil
}

// SavePreferences replaces a user's preference vector.
func (s *Store) SavePreferences(ctx context.Context, userID string, prefs []recommend.UserPreference) error {
	start := time.Now()
	err := saveJSON(s.db, prefsKeyPrefix+userID, prefs)
	metrics.RecordStoreOperation("save_prefs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("save preferences for %s: %w", userID, err)
	}
	return nil
}

// LoadInterests returns a user's declared interest categories. Users
// without stored interests get an empty list.
func (s *Store) LoadInterests(ctx context.Context, userID string) ([]string, error) {
	start := time.Now()
	interests, err := loadJSON[[]string](s.db, interestsKeyPrefix+userID)
	metrics.RecordStoreOperation("load_interests", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load interests for %s: %w", userID, err)
	}
	if interests == nil {
		interests = []string{}
	}
	return interests, nil
}

// SaveInterests replaces a user's declared interest categories.
func (s *Store) SaveInterests(ctx context.Context, userID string, interests []string) error {
	start := time.Now()
	err := saveJSON(s.db, interestsKeyPrefix+userID, interests)
	metrics.RecordStoreOperation("save_interests", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("save interests for %s: %w", userID, err)
	}
	return nil
}

// ApplyEvent folds one interaction event into a user's stored preference
// vector under the user's lock and returns the updated vector. The
// read-modify-write cycle is atomic with respect to other ApplyEvent
// calls for the same user.
func (s *Store) ApplyEvent(ctx context.Context, userID string, event recommend.InteractionEvent) ([]recommend.UserPreference, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	updated, err := s.applyEventLocked(ctx, userID, event)
	metrics.RecordStoreOperation("apply_event", time.Since(start), err)
	return updated, err
}

func (s *Store) applyEventLocked(ctx context.Context, userID string, event recommend.InteractionEvent) ([]recommend.UserPreference, error) {
	current, err := s.LoadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := recommend.UpdatePreferences(current, event)
	if err != nil {
		return nil, fmt.Errorf("apply event for %s: %w", userID, err)
	}

	if err := s.SavePreferences(ctx, userID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Serve runs the value-log garbage collector until the context is
// cancelled. It satisfies the supervisor's service interface.
func (s *Store) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := s.db.RunValueLogGC(gcDiscardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("badger value log GC failed")
			}
		}
	}
}

// String names the store in supervisor logs.
func (s *Store) String() string {
	return "preference-store"
}

func loadJSON[T any](db *badger.DB, key string) (T, error) {
	var out T
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	return out, err
}

func saveJSON(db *badger.DB, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
