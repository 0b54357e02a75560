// Package favorites keeps the device-local set of favorited policy ids.
//
// The set lives under a single key of a key-value device storage as a JSON
// array of integers. It is read once by Load and written back after every
// Toggle or Clear. Until Load has run the store refuses writes, so an early toggle
// can never overwrite what is already in storage.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Key is the storage key holding the favorites array.
const Key = "favoritePolicies"

// ErrNotLoaded is returned by Toggle and Clear before Load has completed.
var ErrNotLoaded = errors.New("favorites not loaded")

// Storage is a string key-value store local to one device or browser.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key.
	Set(key, value string) error
	// Delete removes key and reports whether it was present.
	Delete(key string) (bool, error)
}

// Store is the favorites set of one device.
type Store struct {
	storage Storage
	ids     []int64
	loaded  bool
}

// New returns an unloaded Store backed by storage.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load reads the set from storage. An absent key yields an empty set.
// A value that does not decode also yields an empty, loaded set, and the
// decode error is returned so the caller can report it.
func (s *Store) Load() ([]int64, error) {
	raw, ok, err := s.storage.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	s.ids = []int64{}
	s.loaded = true
	if !ok {
		return s.IDs(), nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return s.IDs(), fmt.Errorf("decode favorites: %w", err)
	}
	for _, id := range ids {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	return s.IDs(), nil
}

// Loaded reports whether Load has run.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Toggle adds id when absent and removes it when present, then persists
// the set. It reports whether id is a favorite afterwards. When the write
// fails the set is left as it was.
func (s *Store) Toggle(id int64) (bool, error) {
	if !s.loaded {
		return false, ErrNotLoaded
	}
	prev := slices.Clone(s.ids)
	added := true
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		added = false
	} else {
		s.ids = append(s.ids, id)
	}
	if err := s.save(); err != nil {
		s.ids = prev
		return !added, err
	}
	return added, nil
}

// Clear removes every favorite and deletes the key from storage.
func (s *Store) Clear() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if _, err := s.storage.Delete(Key); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	s.ids = []int64{}
	return nil
}

// Contains reports whether id is a favorite.
func (s *Store) Contains(id int64) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the favorites in insertion order.
func (s *Store) IDs() []int64 {
	return slices.Clone(s.ids)
}

func (s *Store) save() error {
	b, err := json.Marshal(s.ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.storage.Set(Key, string(b)); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}
