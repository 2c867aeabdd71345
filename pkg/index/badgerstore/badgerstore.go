// Package badgerstore provides a BadgerDB-backed implementation of the
// index.Store interface, giving the Flat index restart-safe persistence
// through an embedded key-value database.
package badgerstore

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/corpora-ai/go-corpora/pkg/index"
)

// Store implements index.Store on top of BadgerDB.
type Store struct {
	db *badger.DB
}

var _ index.Store = (*Store)(nil)

// Open initializes a store at the given directory, creating it if needed.
//
// Example:
//
//	store, err := badgerstore.Open("/var/lib/corpora/index")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	idx := index.NewFlat(index.WithStore(store))
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get retrieves a value by key, returning nil if absent.
func (s *Store) Get(key string) ([]byte, error) {
	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result = append([]byte(nil), val...)
			return nil
		})
	})
	return result, err
}

// Set stores a value by key.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes a value by key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists reports whether key is present.
func (s *Store) Exists(key string) bool {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	return err == nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
