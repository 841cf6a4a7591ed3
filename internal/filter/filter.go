// Package filter selects which trashed items an empty run removes
package filter

import (
	"path/filepath"
	"regexp"
	"time"
)

// Item is what a filter looks at for one trashed entry
type Item struct {
	Name      string    // Original base name
	TrashedAt time.Time // When the entry was moved to trash
	Size      int64     // Size in bytes
	IsDir     bool
}

// Options represents filtering options for trashed items
type Options struct {
	// Time-based filters, on the trashing time
	OlderThan *time.Time // Only items trashed before this time
	NewerThan *time.Time // Only items trashed after this time

	// Size-based filters
	SizeFilter int64  // Size threshold in bytes
	SizeOp     string // Operator: "+" for greater than, "-" for less than

	// Pattern-based filters, on the original name
	Exclude []string       // Glob patterns to exclude
	Include []string       // Glob patterns to include (if set, only these match)
	Regex   *regexp.Regexp // Regex pattern to match
}

// IsEmpty reports whether o selects everything
func (o *Options) IsEmpty() bool {
	return o == nil || (o.OlderThan == nil && o.NewerThan == nil && o.SizeFilter == 0 &&
		len(o.Exclude) == 0 && len(o.Include) == 0 && o.Regex == nil)
}

// Match checks if an item matches the filter criteria
func (o *Options) Match(item Item) bool {
	if o == nil {
		return true
	}

	// Check time-based filters
	if o.OlderThan != nil && !item.TrashedAt.Before(*o.OlderThan) {
		return false
	}

	if o.NewerThan != nil && !item.TrashedAt.After(*o.NewerThan) {
		return false
	}

	// Check size-based filters
	if o.SizeFilter > 0 {
		switch o.SizeOp {
		case "+":
			if item.Size <= o.SizeFilter {
				return false
			}
		case "-":
			if item.Size >= o.SizeFilter {
				return false
			}
		}
	}

	// Check include patterns (if set, item must match at least one)
	if len(o.Include) > 0 && !MatchesGlob(item.Name, o.Include) {
		return false
	}

	// Check exclude patterns
	if len(o.Exclude) > 0 && MatchesGlob(item.Name, o.Exclude) {
		return false
	}

	// Check regex pattern
	if o.Regex != nil && !o.Regex.MatchString(item.Name) {
		return false
	}

	return true
}

// MatchesGlob checks if a name matches any of the given glob patterns
func MatchesGlob(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, _ := filepath.Match(pattern, name); match {
			return true
		}
	}
	return false
}
