// Package storage implements the file-backed document store behind the
// local catalog. The whole collection lives in memory and is written back
// to a single JSON file after every mutation.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"shopgate/internal/models"
)

// Collection is the on-disk shape of the store: one document list per
// entity kind.
type Collection struct {
	Products []models.Product `json:"products"`
}

// Store holds the in-memory collection and knows how to flush it. It is
// constructed once at startup and handed to the repository; there is no
// package-level instance.
type Store struct {
	path       string
	Collection Collection
}

// Open reads the collection file at path. A missing file is not an error:
// the store starts empty and writes the initial structure immediately, so
// a later persist cannot be the first time the path is exercised.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
		}
		s.Collection = Collection{Products: []models.Product{}}
		if err := s.Persist(); err != nil {
			return nil, err
		}
		log.Printf("Store initialized with empty collection at %s", path)
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.Collection); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	if s.Collection.Products == nil {
		s.Collection.Products = []models.Product{}
	}
	log.Printf("Store loaded %d product(s) from %s", len(s.Collection.Products), path)
	return s, nil
}

// Persist writes the entire collection back to the file. Any failure is
// returned to the caller as-is; the in-memory state is left untouched but
// must be considered unpersisted.
func (s *Store) Persist() error {
	raw, err := json.MarshalIndent(s.Collection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", s.path, err)
	}
	return nil
}
