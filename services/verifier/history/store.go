// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package history persists completed verifications in an embedded BadgerDB
// so recent runs can be listed and replayed through the HTTP API. Records
// expire via Badger's native TTL; there is no separate reaper.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

const keyPrefix = "verification/"

// DefaultTTL keeps records for a week.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned by Get when no record exists for the id.
var ErrNotFound = errors.New("verification not found")

// Store is a BadgerDB-backed verification archive. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens (or creates) a persistent store at path. ttl <= 0 falls back to
// DefaultTTL.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("path is required for persistent store")
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create history directory %s: %w", path, err)
	}
	opts := badger.DefaultOptions(path).WithSyncWrites(true).WithNumVersionsToKeep(1)
	return open(opts, ttl, logger)
}

// OpenInMemory opens an ephemeral store for testing. Data is lost on Close.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithSyncWrites(false)
	return open(opts, DefaultTTL, logger)
}

func open(opts badger.Options, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a completed verification under its ID with the store's TTL.
func (s *Store) Put(record *datatypes.VerificationResponse) error {
	if record.ID == "" {
		return errors.New("record has no id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal verification %s: %w", record.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+record.ID), data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("store verification %s: %w", record.ID, err)
	}
	return nil
}

// Get loads one verification by ID. Returns ErrNotFound for unknown or
// expired ids.
func (s *Store) Get(id string) (*datatypes.VerificationResponse, error) {
	var record datatypes.VerificationResponse
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns up to limit records, newest first. Keys are UUIDs so Badger's
// key order is meaningless here; records are loaded and sorted by CreatedAt.
func (s *Store) List(limit int) ([]*datatypes.VerificationResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []*datatypes.VerificationResponse
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record datatypes.VerificationResponse
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				s.logger.Warn("skipping corrupt history record",
					"key", string(it.Item().Key()),
					"error", err)
				continue
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
