// Package mover relocates files into trash directories
package mover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rtrash/internal/model"
)

// NameVersion tags the layout of trashed file names
const NameVersion = "v1"

// NewName builds the trash file name for path: v1-<ts>-<basename>
func NewName(path string, ts int64) string {
	return fmt.Sprintf("%s-%d-%s", NameVersion, ts, filepath.Base(path))
}

// ParseName splits a trash file name into its timestamp and original base name
func ParseName(name string) (int64, string, bool) {
	rest, ok := strings.CutPrefix(name, NameVersion+"-")
	if !ok {
		return 0, "", false
	}
	tsPart, original, ok := strings.Cut(rest, "-")
	if !ok || original == "" {
		return 0, "", false
	}
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return ts, original, true
}

// Plan returns the move of src into trashDir stamped with ts
func Plan(src, trashDir string, ts int64) model.Move {
	return model.Move{Src: src, Dest: filepath.Join(trashDir, NewName(src, ts))}
}

// ProgressCallback is called for each move processed
type ProgressCallback func(m model.Move, err error)

// Engine executes or simulates moves
type Engine struct {
	dryRun bool // Report moves without touching the filesystem
}

// New creates a new Engine
func New(dryRun bool) *Engine {
	return &Engine{dryRun: dryRun}
}

// Run processes moves in order and returns the ones that succeeded.
// A failed move does not stop the batch.
func (e *Engine) Run(moves []model.Move, onProgress ProgressCallback) []model.Move {
	done := make([]model.Move, 0, len(moves))
	for _, m := range moves {
		var err error
		if e.dryRun {
			m = Simulate(m)
		} else {
			m, err = Execute(m)
		}
		if err == nil {
			done = append(done, m)
		}
		if onProgress != nil {
			onProgress(m, err)
		}
	}
	return done
}

// Simulate returns m unchanged without touching the filesystem
func Simulate(m model.Move) model.Move {
	return m
}

// Execute renames m.Src to m.Dest.
// It never copies: a move across devices fails with model.ErrCrossDevice.
func Execute(m model.Move) (model.Move, error) {
	if _, err := os.Lstat(m.Src); err != nil {
		return m, statError("source", m.Src, err)
	}

	destDir := filepath.Dir(m.Dest)
	dirInfo, err := os.Stat(destDir)
	if err != nil {
		return m, statError("trash directory", destDir, err)
	}
	if !dirInfo.IsDir() {
		return m, fmt.Errorf("%w: %s is not a directory", model.ErrIO, destDir)
	}

	if _, err := os.Lstat(m.Dest); err == nil {
		return m, fmt.Errorf("%w: %s", model.ErrDestinationExists, m.Dest)
	}

	if same, ok := sameDevice(m.Src, destDir); ok && !same {
		return m, fmt.Errorf("%w: %s -> %s", model.ErrCrossDevice, m.Src, destDir)
	}

	if err := os.Rename(m.Src, m.Dest); err != nil {
		if isCrossDeviceError(err) {
			return m, fmt.Errorf("%w: %s -> %s", model.ErrCrossDevice, m.Src, destDir)
		}
		return m, fmt.Errorf("%w: move %s: %w", model.ErrIO, m.Src, err)
	}

	return m, nil
}

func statError(what, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s %s", model.ErrNotFound, what, path)
	}
	return fmt.Errorf("%w: stat %s: %w", model.ErrIO, path, err)
}
