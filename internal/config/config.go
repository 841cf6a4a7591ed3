// Package config handles configuration management for rtrash
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rtrash/internal/model"
	"rtrash/internal/utils"
)

// DefaultMtabPath is the mount table consulted on multi-volume systems
const DefaultMtabPath = "/etc/mtab"

// Config holds the process environment and user settings.
// It is built once in cmd and passed down explicitly.
type Config struct {
	// HomeDir is the user's home directory (HOME)
	HomeDir string
	// WorkDir resolves relative targets (PWD)
	WorkDir string
	// MtabPath is the mount table file
	MtabPath string
	// ProtectedPaths lists paths that are never moved to trash
	ProtectedPaths []string
	// ShowProgress enables the progress bar for real runs (default: true)
	ShowProgress bool
}

// fileConfig is the on-disk layout of config.yaml
type fileConfig struct {
	MtabPath       string   `yaml:"mtab_path"`
	ProtectedPaths []string `yaml:"protected_paths"`
	Progress       *bool    `yaml:"progress"`
}

// DefaultProtectedPaths returns the default list of protected paths
func DefaultProtectedPaths() []string {
	return []string{
		// Root and system directories
		"/",
		"/bin",
		"/sbin",
		"/usr",
		"/etc",
		"/var",
		"/lib",
		"/lib64",
		"/boot",
		"/sys",
		"/proc",
		"/dev",
		"/run",

		// macOS specific
		"/System",
		"/Library",
		"/Applications",

		// User sensitive directories (will be expanded with home dir)
		"~",
		"~/.ssh",
		"~/.gnupg",

		// Version control
		".git",
	}
}

// Load builds the configuration from the real process environment
func Load() (*Config, error) {
	return FromEnv(os.Getenv, os.Getwd)
}

// FromEnv builds the configuration from the given lookups
func FromEnv(getenv func(string) string, getwd func() (string, error)) (*Config, error) {
	home := strings.TrimSpace(getenv("HOME"))
	if home == "" {
		return nil, fmt.Errorf("%w: HOME is not set", model.ErrConfiguration)
	}
	if !filepath.IsAbs(home) {
		return nil, fmt.Errorf("%w: HOME must be absolute, got %q", model.ErrConfiguration, home)
	}

	cwd := strings.TrimSpace(getenv("PWD"))
	if cwd == "" {
		wd, err := getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot find current directory: %v", model.ErrConfiguration, err)
		}
		cwd = wd
	}
	if !filepath.IsAbs(cwd) {
		return nil, fmt.Errorf("%w: working directory must be absolute, got %q", model.ErrConfiguration, cwd)
	}

	cfg := &Config{
		HomeDir:      filepath.Clean(home),
		WorkDir:      filepath.Clean(cwd),
		MtabPath:     DefaultMtabPath,
		ShowProgress: true,
	}
	for _, p := range DefaultProtectedPaths() {
		cfg.AddProtectedPath(p)
	}

	if err := cfg.loadUserConfig(cfg.FilePath()); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FilePath is the location of the optional user config file
func (c *Config) FilePath() string {
	return filepath.Join(c.HomeDir, ".config", "rtrash", "config.yaml")
}

// loadUserConfig merges settings from the user config file, if present
func (c *Config) loadUserConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading config file %q: %v", model.ErrConfiguration, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parsing config file %q: %v", model.ErrConfiguration, path, err)
	}

	if fc.MtabPath != "" {
		c.MtabPath = c.expand(fc.MtabPath)
	}
	if fc.Progress != nil {
		c.ShowProgress = *fc.Progress
	}
	for _, p := range fc.ProtectedPaths {
		c.AddProtectedPath(p)
	}

	return nil
}

// Abs makes path absolute against the working directory
func (c *Config) Abs(path string) string {
	return utils.MakeAbsolute(c.WorkDir, path)
}

// IsProtected checks if a path is protected.
// Absolute entries match exactly; bare names (like .git) match any path
// with that base name.
func (c *Config) IsProtected(path string) bool {
	absPath := filepath.Clean(c.Abs(path))

	for _, protected := range c.ProtectedPaths {
		if !filepath.IsAbs(protected) {
			if filepath.Base(absPath) == protected {
				return true
			}
			continue
		}
		if absPath == filepath.Clean(protected) {
			return true
		}
	}

	return false
}

// AddProtectedPath adds a new protected path, expanding a leading ~.
// Blank entries are ignored.
func (c *Config) AddProtectedPath(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	c.ProtectedPaths = append(c.ProtectedPaths, c.expand(path))
}

// expand replaces a leading ~ with the home directory
func (c *Config) expand(p string) string {
	switch {
	case p == "~":
		return c.HomeDir
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(c.HomeDir, p[2:])
	}
	return p
}
