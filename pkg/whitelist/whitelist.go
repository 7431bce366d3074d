// Package whitelist keeps the set of Discord users allowed to drive the
// bridge, persisted as a JSON array of user ids.
package whitelist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// Outcome is the result of a mutation.
type Outcome int

const (
	Added Outcome = iota
	Removed
	AlreadyPresent
	NotPresent
	IsOwner
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case AlreadyPresent:
		return "already-present"
	case NotPresent:
		return "not-present"
	case IsOwner:
		return "is-owner"
	default:
		return "unknown"
	}
}

// Changed reports whether the outcome altered the list.
func (o Outcome) Changed() bool {
	return o == Added || o == Removed
}

// Store is the in-memory whitelist backed by a file.
type Store struct {
	mu      sync.RWMutex
	path    string
	ownerID int64
	ids     []int64
}

// Load reads the whitelist at path. A missing, empty or unreadable file
// yields an empty store; Load never fails.
func Load(path string, ownerID int64) *Store {
	s := &Store{path: path, ownerID: ownerID, ids: []int64{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info(fmt.Sprintf("No whitelist at %s, starting empty", path), "Whitelist")
		return s
	case err != nil:
		logger.Warn(fmt.Sprintf("Could not read %s: %v", path, err), "Whitelist")
		return s
	case len(data) == 0:
		return s
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Warn(fmt.Sprintf("Could not load or parse %s: %v", path, err), "Whitelist")
		return s
	}

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id == ownerID || seen[id] {
			continue
		}
		seen[id] = true
		s.ids = append(s.ids, id)
	}

	logger.Info(fmt.Sprintf("Loaded %d whitelisted users", len(s.ids)), "Whitelist")
	return s
}

// Contains reports whether id is whitelisted. The owner is not listed.
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// List returns a copy of the whitelist in insertion order.
func (s *Store) List() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of whitelisted users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Add whitelists id and persists the list. The owner is refused.
func (s *Store) Add(id int64) Outcome {
	if id == s.ownerID {
		return IsOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) >= 0 {
		return AlreadyPresent
	}
	s.ids = append(s.ids, id)
	s.persist()
	return Added
}

// Remove drops id and persists the list.
func (s *Store) Remove(id int64) Outcome {
	if id == s.ownerID {
		return IsOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return NotPresent
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	s.persist()
	return Removed
}

// Save writes the whitelist to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

func (s *Store) persist() {
	if err := s.save(); err != nil {
		logger.Warn(fmt.Sprintf("Error saving whitelist: %v", err), "Whitelist")
	}
}

// save writes the list under the lock held by the caller.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.ids, "", "    ")
	if err != nil {
		return fmt.Errorf("encode whitelist: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *Store) indexOf(id int64) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
