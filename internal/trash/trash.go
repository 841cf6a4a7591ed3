// Package trash implements the remove, empty and list operations of rtrash
package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"rtrash/internal/config"
	"rtrash/internal/filter"
	"rtrash/internal/history"
	"rtrash/internal/model"
	"rtrash/internal/mover"
	"rtrash/internal/resolver"
	"rtrash/internal/scanner"
)

// Manager handles trash operations
type Manager struct {
	cfg      *config.Config
	resolver resolver.Resolver
	store    *history.Store
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock sets the time source used to stamp trash names
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new trash manager.
// The history lives in the home trash directory.
func NewManager(cfg *config.Config, r resolver.Resolver, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		resolver: r,
		store:    history.NewStore(r.HomeTrash()),
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HistoryPath returns the location of the history file
func (m *Manager) HistoryPath() string {
	return m.store.Path()
}

// TrashDir returns the home trash directory
func (m *Manager) TrashDir() string {
	return m.resolver.HomeTrash()
}

// FileError is a failure for one target
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// RemoveResult reports a remove batch
type RemoveResult struct {
	Moves  []model.Move // Moves executed, or planned in a dry run
	Failed []*FileError // Per-file failures, never filled in a dry run
}

// Remove moves paths to their trash directories and records the batch.
// Individual failures are collected and the batch continues; the returned
// error is reserved for setup and history failures.
// A dry run never touches the filesystem or the history.
func (m *Manager) Remove(paths []string, dryRun bool, onProgress mover.ProgressCallback) (*RemoveResult, error) {
	if err := m.resolver.Check(); err != nil {
		return nil, err
	}

	var hist *model.History
	var err error
	if dryRun {
		hist, err = m.store.Read()
	} else {
		if err := ensureDir(m.resolver.HomeTrash()); err != nil {
			return nil, fmt.Errorf("%w: create trash directory: %w", model.ErrConfiguration, err)
		}
		hist, err = m.store.Load()
	}
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{}
	fail := func(path string, err error) {
		if dryRun {
			m.logger.Debug("skipping file in dry run", "path", path, "error", err)
			return
		}
		m.logger.Debug("cannot move to trash", "path", path, "error", err)
		result.Failed = append(result.Failed, &FileError{Path: path, Err: err})
	}

	ts := m.now().Unix()
	moves := m.plan(paths, ts, dryRun, func(path string, err error) {
		fail(path, err)
		if onProgress != nil {
			onProgress(model.Move{Src: path}, err)
		}
	})

	engine := mover.New(dryRun)
	result.Moves = engine.Run(moves, func(mv model.Move, err error) {
		if err != nil {
			fail(mv.Src, err)
		} else {
			m.logger.Debug("moved to trash", "src", mv.Src, "dest", mv.Dest, "dry_run", dryRun)
		}
		if onProgress != nil {
			onProgress(mv, err)
		}
	})

	if dryRun || len(result.Moves) == 0 {
		return result, nil
	}

	cmd := model.NewCommand(m.newID(), ts)
	for _, mv := range result.Moves {
		cmd.AddFile(mv)
	}
	hist.AddCommand(*cmd)

	if err := m.store.Save(hist); err != nil {
		return result, fmt.Errorf("save history: %w", err)
	}

	return result, nil
}

// plan resolves every path to a move. Paths that cannot be planned are
// reported through fail and left out.
func (m *Manager) plan(paths []string, ts int64, dryRun bool, fail func(string, error)) []model.Move {
	planned := make(map[string]bool, len(paths))
	moves := make([]model.Move, 0, len(paths))

	for _, p := range paths {
		src := m.cfg.Abs(p)

		// The history is JSON, which cannot hold these names losslessly
		if !utf8.ValidString(src) {
			fail(src, fmt.Errorf("%w: %q", model.ErrInvalidPath, src))
			continue
		}
		if m.cfg.IsProtected(src) {
			fail(src, model.ErrProtectedPath)
			continue
		}
		if insideTrash(src) {
			fail(src, fmt.Errorf("%w: already inside a trash directory", model.ErrProtectedPath))
			continue
		}

		trashDir, err := m.resolver.Resolve(src)
		if err != nil {
			fail(src, err)
			continue
		}

		if !dryRun {
			if err := ensureDir(trashDir); err != nil {
				fail(src, fmt.Errorf("%w: create trash directory: %w", model.ErrIO, err))
				continue
			}
		}

		mv, err := uniqueMove(src, trashDir, ts, planned)
		if err != nil {
			fail(src, err)
			continue
		}
		if !utf8.ValidString(mv.Dest) {
			fail(src, fmt.Errorf("%w: %q", model.ErrInvalidPath, mv.Dest))
			continue
		}
		planned[mv.Dest] = true
		moves = append(moves, mv)
	}

	return moves
}

// maxNameAttempts bounds the timestamp bumps tried for one source
const maxNameAttempts = 1000

// uniqueMove stamps src with the first timestamp from ts on whose name is
// neither on disk nor already planned in this batch
func uniqueMove(src, trashDir string, ts int64, planned map[string]bool) (model.Move, error) {
	for i := 0; i < maxNameAttempts; i++ {
		mv := mover.Plan(src, trashDir, ts+int64(i))
		if planned[mv.Dest] {
			continue
		}
		_, err := os.Lstat(mv.Dest)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return mv, nil
		case err != nil:
			return mv, fmt.Errorf("%w: check trash name: %w", model.ErrIO, err)
		}
	}
	return model.Move{}, fmt.Errorf("%w: no free trash name for %s after %d attempts",
		model.ErrDestinationExists, src, maxNameAttempts)
}

// insideTrash reports whether path is a trash directory or lies below one
func insideTrash(path string) bool {
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		if filepath.Base(p) == resolver.TrashDirName {
			return true
		}
		if filepath.Dir(p) == p {
			return false
		}
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// Item is one entry found in a trash directory
type Item struct {
	TrashPath    string    // Location inside the trash directory
	Name         string    // Original base name
	OriginalPath string    // Where it came from, empty when not in the history
	TrashedAt    time.Time // Zero when the name carries no timestamp
	Size         int64
	IsDir        bool
}

// List returns every trashed item, oldest first, and their total size
func (m *Manager) List() ([]Item, int64, error) {
	hist, err := m.store.Read()
	if err != nil {
		return nil, 0, err
	}

	entries, err := m.entries()
	if err != nil {
		return nil, 0, err
	}

	items := make([]Item, 0, len(entries))
	var totalSize int64
	for _, entry := range entries {
		item := toItem(entry)
		if mv, ok := hist.FindByDest(entry.Path); ok {
			item.OriginalPath = mv.Src
		}
		items = append(items, item)
		totalSize += item.Size
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TrashedAt.Before(items[j].TrashedAt)
	})

	return items, totalSize, nil
}

// EmptyResult reports an empty run
type EmptyResult struct {
	Removed    int
	BytesFreed int64
	Failed     []*FileError
}

// Empty permanently deletes trashed items, keeping the history file.
// With a non-empty filter only matching items are deleted.
func (m *Manager) Empty(opts *filter.Options, onProgress func(path string, err error)) (*EmptyResult, error) {
	entries, err := m.entries()
	if err != nil {
		return nil, err
	}

	result := &EmptyResult{}
	for _, entry := range entries {
		if !opts.Match(toFilterItem(entry)) {
			continue
		}

		if entry.IsDir {
			err = os.RemoveAll(entry.Path)
		} else {
			err = os.Remove(entry.Path)
		}

		if err != nil {
			err = fmt.Errorf("%w: %w", model.ErrIO, err)
			m.logger.Debug("cannot delete trashed item", "path", entry.Path, "error", err)
			result.Failed = append(result.Failed, &FileError{Path: entry.Path, Err: err})
		} else {
			m.logger.Debug("deleted trashed item", "path", entry.Path)
			result.Removed++
			result.BytesFreed += entry.Size
		}
		if onProgress != nil {
			onProgress(entry.Path, err)
		}
	}

	return result, nil
}

// Count returns the entries Empty would consider, and their total size
func (m *Manager) Count(opts *filter.Options) (int, int64, error) {
	entries, err := m.entries()
	if err != nil {
		return 0, 0, err
	}
	var n int
	var size int64
	for _, entry := range entries {
		if opts.Match(toFilterItem(entry)) {
			n++
			size += entry.Size
		}
	}
	return n, size, nil
}

// entries lists every trash directory, leaving out the history file
func (m *Manager) entries() ([]scanner.FileInfo, error) {
	dirs, err := m.resolver.TrashDirs()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}

	historyPath := m.store.Path()
	var all []scanner.FileInfo
	for _, dir := range dirs {
		files, err := scanner.Scan(dir)
		if err != nil {
			if dir == m.resolver.HomeTrash() {
				return nil, err
			}
			// Pseudo filesystems in the mount table often refuse reads
			m.logger.Debug("skipping unreadable trash directory", "dir", dir, "error", err)
			continue
		}
		for _, f := range files {
			if f.Path == historyPath {
				continue
			}
			all = append(all, f)
		}
	}
	return all, nil
}

func toItem(entry scanner.FileInfo) Item {
	item := Item{
		TrashPath: entry.Path,
		Name:      entry.Name,
		Size:      entry.Size,
		IsDir:     entry.IsDir,
	}
	if ts, original, ok := mover.ParseName(entry.Name); ok {
		item.Name = original
		item.TrashedAt = time.Unix(ts, 0)
	}
	return item
}

func toFilterItem(entry scanner.FileInfo) filter.Item {
	item := toItem(entry)
	trashedAt := item.TrashedAt
	if trashedAt.IsZero() {
		trashedAt = time.Unix(entry.ModTime, 0)
	}
	return filter.Item{
		Name:      item.Name,
		TrashedAt: trashedAt,
		Size:      item.Size,
		IsDir:     item.IsDir,
	}
}
