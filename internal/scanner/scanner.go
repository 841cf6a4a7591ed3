// Package scanner lists the contents of trash directories
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rtrash/internal/model"
)

// FileInfo represents one entry directly under a trash directory
type FileInfo struct {
	Path    string      // Absolute path of the entry
	Name    string      // Base name inside the trash directory
	Size    int64       // Size in bytes, summed over the tree for directories
	Mode    os.FileMode // File mode
	ModTime int64       // Modification time (Unix timestamp)
	IsDir   bool        // Whether this is a directory
}

// Scan returns the direct entries of dir in name order.
// A missing directory yields no entries.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read trash directory: %w", model.ErrIO, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Lstat
			continue
		}

		path := filepath.Join(dir, entry.Name())
		size := info.Size()
		if info.IsDir() {
			size = dirSize(path)
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    entry.Name(),
			Size:    size,
			Mode:    info.Mode(),
			ModTime: info.ModTime().Unix(),
			IsDir:   info.IsDir(),
		})
	}

	return files, nil
}

// dirSize sums the sizes of regular files below root
func dirSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip files we can't access
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
