// Package cache is the fetch-avoidance cache: a key-value store with an
// explicit get-or-compute contract and an explicit TTL policy, injected
// into fetch operations rather than wrapping them.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store is the cache contract. Keys are period identifiers (or other
// flat names); values are the canonical CSV bytes of a parsed table.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
}

// FSStore keeps one flat file per key under a directory. A zero TTL
// means entries never expire (the build-once-commit model); a positive
// TTL expires entries by file modification time (the live-fetch model).
type FSStore struct {
	dir string
	ttl time.Duration
}

// NewFSStore creates the directory if needed.
func NewFSStore(dir string, ttl time.Duration) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FSStore{dir: dir, ttl: ttl}, nil
}

// Get returns the cached bytes for key, with ok=false on a miss or an
// expired entry.
func (s *FSStore) Get(key string) ([]byte, bool, error) {
	path := s.path(key)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat cache entry %s: %w", key, err)
	}
	if s.ttl > 0 && time.Since(info.ModTime()) > s.ttl {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes the bytes for key, replacing any existing entry.
func (s *FSStore) Put(key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

// Invalidate removes an entry; absent entries are not an error.
func (s *FSStore) Invalidate(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("invalidate cache entry %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.dir, key+".csv")
}

// GetOrFetch returns the cached value for key, or computes it, stores
// it, and returns it. The hit result distinguishes the two paths.
func GetOrFetch(s Store, key string, compute func() ([]byte, error)) (data []byte, hit bool, err error) {
	data, hit, err = s.Get(key)
	if err != nil || hit {
		return data, hit, err
	}
	data, err = compute()
	if err != nil {
		return nil, false, err
	}
	if err := s.Put(key, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}
