// Package resolver decides which trash directory a file is moved into
package resolver

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"rtrash/internal/config"
	"rtrash/internal/model"
	"rtrash/internal/mtab"
)

// TrashDirName is the reserved directory created under a trash root
const TrashDirName = ".rtrash"

// Resolver maps files to trash directories
type Resolver interface {
	// Resolve returns the trash directory for an absolute path.
	// The directory is not created.
	Resolve(path string) (string, error)

	// TrashDirs returns every trash directory that may hold trashed files,
	// the home trash first
	TrashDirs() ([]string, error)

	// HomeTrash is the trash directory under the home directory
	HomeTrash() string

	// Check validates the setup before any file is moved
	Check() error
}

// New returns the resolver for the running operating system
func New(cfg *config.Config) (Resolver, error) {
	return Detect(runtime.GOOS, cfg)
}

// Detect picks the resolver strategy for goos
func Detect(goos string, cfg *config.Config) (Resolver, error) {
	switch goos {
	case "linux":
		return &MultiVolume{home: cfg.HomeDir, mtabPath: cfg.MtabPath}, nil
	case "darwin":
		return &SingleVolume{home: cfg.HomeDir}, nil
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedEnvironment, goos)
	}
}

// TrashDirFor returns the trash directory of the longest candidate root that
// prefixes path. Candidates are the mount points plus home.
// Matching is on the raw strings, paths are not canonicalized.
func TrashDirFor(path string, mountPoints []string, home string) (string, bool) {
	candidates := make([]string, 0, len(mountPoints)+1)
	for _, mp := range mountPoints {
		if filepath.IsAbs(mp) {
			candidates = append(candidates, mp)
		}
	}
	candidates = append(candidates, home)

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	for _, root := range candidates {
		if root != "" && strings.HasPrefix(path, root) {
			return filepath.Join(root, TrashDirName), true
		}
	}
	return "", false
}

// MultiVolume resolves against the mount table so that every file stays on
// its own device
type MultiVolume struct {
	home     string
	mtabPath string
}

// NewMultiVolume creates a mount-table driven resolver
func NewMultiVolume(home, mtabPath string) *MultiVolume {
	return &MultiVolume{home: home, mtabPath: mtabPath}
}

// Resolve re-reads the mount table on every call
func (r *MultiVolume) Resolve(path string) (string, error) {
	volumes, err := mtab.Parse(r.mtabPath)
	if err != nil {
		return "", err
	}

	dir, ok := TrashDirFor(path, mtab.MountPoints(volumes), r.home)
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrUnresolvableTrashLocation, path)
	}
	return dir, nil
}

// TrashDirs lists the home trash followed by one trash per mount point
func (r *MultiVolume) TrashDirs() ([]string, error) {
	volumes, err := mtab.Parse(r.mtabPath)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{r.HomeTrash(): true}
	dirs := []string{r.HomeTrash()}
	for _, mp := range mtab.MountPoints(volumes) {
		if !filepath.IsAbs(mp) {
			continue
		}
		dir := filepath.Join(mp, TrashDirName)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// HomeTrash returns <home>/.rtrash
func (r *MultiVolume) HomeTrash() string {
	return filepath.Join(r.home, TrashDirName)
}

// Check makes sure the mount table can be read
func (r *MultiVolume) Check() error {
	if _, err := mtab.Parse(r.mtabPath); err != nil {
		return fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	return nil
}

// SingleVolume always uses the home trash
type SingleVolume struct {
	home string
}

// NewSingleVolume creates a fixed home-relative resolver
func NewSingleVolume(home string) *SingleVolume {
	return &SingleVolume{home: home}
}

// Resolve ignores path
func (r *SingleVolume) Resolve(string) (string, error) {
	return r.HomeTrash(), nil
}

func (r *SingleVolume) TrashDirs() ([]string, error) {
	return []string{r.HomeTrash()}, nil
}

func (r *SingleVolume) HomeTrash() string {
	return filepath.Join(r.home, TrashDirName)
}

func (r *SingleVolume) Check() error {
	return nil
}
