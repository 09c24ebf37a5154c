// Package local implements the repository contracts against plain JSON
// files on disk. It is the fallback backend used when no document store
// is configured or reachable: each collection lives under one fixed key
// (file), holding a serialized sequence or map, and all filtering and
// sorting happens in code since there is no query engine.
package local

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys, one file per collection.
const (
	profileKey = "titan_profile.json"
	logsKey    = "titan_logs.json"
	reportsKey = "titan_reports.json"
	usersKey   = "titan_users.json"
)

// Store owns the data directory and serializes access to it. One Store
// backs all local repositories so a read-modify-write on a collection
// file never races another.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore creates the data directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("local store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// read unmarshals the named collection file into v. A missing file is
// not an error; v keeps its zero value.
func (s *Store) read(key string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// write marshals v and replaces the named collection file atomically,
// so a crash mid-write never leaves a truncated collection behind.
func (s *Store) write(key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, key+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, key))
}
