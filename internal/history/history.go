// Package history persists the log of executed remove commands.
//
// The whole log is read once and rewritten once per invocation. There is no
// locking: two rtrash processes writing at the same time can lose a command.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rtrash/internal/model"
)

// FileName is the reserved name of the history file inside a trash directory
const FileName = ".history"

// Store reads and writes the history file
type Store struct {
	path string
}

// NewStore returns the store kept in trashDir
func NewStore(trashDir string) *Store {
	return &Store{path: filepath.Join(trashDir, FileName)}
}

// Path returns the history file location
func (s *Store) Path() string {
	return s.path
}

// Load parses the history file. A missing file is created empty.
func (s *Store) Load() (*model.History, error) {
	h, exists, err := s.read()
	if err != nil {
		return nil, err
	}
	if exists {
		return h, nil
	}

	if err := s.Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Read parses the history file without ever creating it
func (s *Store) Read() (*model.History, error) {
	h, _, err := s.read()
	return h, err
}

func (s *Store) read() (*model.History, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewHistory(), false, nil
		}
		return nil, false, fmt.Errorf("%w: read history: %w", model.ErrIO, err)
	}

	h, err := parse(data)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", model.ErrCorruptHistory, s.path, err)
	}
	return h, true, nil
}

// Save rewrites the whole history atomically
func (s *Store) Save(h *model.History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal history: %w", model.ErrIO, err)
	}

	// Write atomically via temp file
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("%w: write temp history: %w", model.ErrIO, err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: rename history: %w", model.ErrIO, err)
	}

	return nil
}

func parse(data []byte) (*model.History, error) {
	var h model.History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	if h.History == nil {
		// {} or {"history": null} carry no commands
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil || probe == nil {
			return nil, fmt.Errorf("not a history object")
		}
		h.History = []model.Command{}
	}
	for i := range h.History {
		if h.History[i].Files == nil {
			h.History[i].Files = []model.Move{}
		}
	}
	return &h, nil
}
