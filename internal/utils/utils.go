// Package utils provides utility functions for rtrash
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
)

// MakeAbsolute joins a relative path onto cwd. Absolute paths are returned as is.
// The join is cleaned, so "./x" gives cwd/x and "a/../b" gives cwd/b rather
// than the literal cwd + "/" + path.
func MakeAbsolute(cwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// FormatSize formats a size in bytes to a human-readable string
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return datasize.ByteSize(bytes).HR()
}

// ParseSizeFilter parses a size filter string (e.g., "+100MB", "-1G")
// Returns the size in bytes and the operator ("+" or "-")
func ParseSizeFilter(s string) (int64, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("empty size filter")
	}

	var op string
	switch s[0] {
	case '+':
		op = "+"
		s = s[1:]
	case '-':
		op = "-"
		s = s[1:]
	default:
		op = "+" // Default to greater than
	}
	if s == "" {
		return 0, "", fmt.Errorf("missing size after %q", op)
	}

	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return 0, "", fmt.Errorf("invalid size %q: %w", s, err)
	}

	return int64(size.Bytes()), op, nil
}

const day = 24 * time.Hour

// durationUnits are the suffixes accepted on top of time.ParseDuration.
// Months and years are approximate.
var durationUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"mo": 30 * day, "month": 30 * day, "months": 30 * day,
	"y": 365 * day, "year": 365 * day, "years": 365 * day,
}

var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z]+)$`)

// ParseDuration parses an age such as "30d", "24h" or "1w"
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return time.ParseDuration(s)
	}

	unit, ok := durationUnits[m[2]]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", m[2])
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", m[1], err)
	}

	return time.Duration(n * float64(unit)), nil
}
