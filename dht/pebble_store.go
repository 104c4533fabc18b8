// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleStore adapts a *pebble.DB to the Registry's Store interface.
// NewRegistry accepts one in place of nil, but Registry keeps its
// content index in memory and does not read from or write to the
// Store, so passing one does not make the index survive a restart.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (creating if absent) a pebble database at dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

// Has reports whether key is present.
func (s *PebbleStore) Has(key []byte) (bool, error) {
	_, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, closer.Close()
}

// Get returns the value stored for key.
func (s *PebbleStore) Get(key []byte) ([]byte, error) {
	value, closer, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), value...)
	return out, closer.Close()
}

// Put stores value under key.
func (s *PebbleStore) Put(key, value []byte) error {
	return s.db.Set(key, value, pebble.Sync)
}

// Delete removes key.
func (s *PebbleStore) Delete(key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}

// Close releases the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}
