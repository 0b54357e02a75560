// Package storage implements the device-local key-value storage used by the
// terminal client. Values live in a single JSON file, one string per key.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the storage file name inside the client home directory.
const DefaultFile = "storage.json"

// LocalStorage is a string key-value store persisted to a JSON file.
// Every Set and Delete rewrites the file.
type LocalStorage struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewLocalStorage returns a storage bound to path. Nothing is read until Load.
func NewLocalStorage(path string) *LocalStorage {
	return &LocalStorage{path: path, values: make(map[string]string)}
}

// Load reads the storage file. A missing file is an empty storage.
func (ls *LocalStorage) Load() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	data, err := os.ReadFile(ls.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ls.values = make(map[string]string)
			return nil
		}
		return err
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse %s: %w", ls.path, err)
	}
	ls.values = values
	return nil
}

// save writes the storage file via a temp file and rename.
func (ls *LocalStorage) save() error {
	b, err := json.MarshalIndent(ls.values, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(ls.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := ls.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, ls.path)
}

// Get returns the value stored under key.
func (ls *LocalStorage) Get(key string) (string, bool, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	v, ok := ls.values[key]
	return v, ok, nil
}

// Set stores value under key and persists the file.
func (ls *LocalStorage) Set(key, value string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.values[key] = value
	return ls.save()
}

// Delete removes key and persists the file. It reports whether key existed.
func (ls *LocalStorage) Delete(key string) (bool, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.values[key]; !ok {
		return false, nil
	}
	delete(ls.values, key)
	return true, ls.save()
}
