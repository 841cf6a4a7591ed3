// Package mtab reads the system mount table
package mtab

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"rtrash/internal/model"
)

// MountedVolume is one entry of the mount table
type MountedVolume struct {
	Device         string
	MountPoint     string
	FilesystemType string
	Options        string
}

// Parse reads the mount table at path.
// Blank lines, comments and lines with fewer than four fields are skipped.
func Parse(path string) ([]MountedVolume, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: mount table %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: open mount table: %w", model.ErrIO, err)
	}
	defer file.Close()

	volumes := []MountedVolume{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		volumes = append(volumes, MountedVolume{
			Device:         fields[0],
			MountPoint:     unescape(fields[1]),
			FilesystemType: fields[2],
			Options:        fields[3],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read mount table: %w", model.ErrIO, err)
	}

	return volumes, nil
}

// MountPoints returns the mount point of every volume
func MountPoints(volumes []MountedVolume) []string {
	points := make([]string, 0, len(volumes))
	for _, v := range volumes {
		points = append(points, v.MountPoint)
	}
	return points
}

// unescape decodes the octal escapes (\040 for space) the kernel writes
// into mount points
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			result = append(result, (s[i+1]-'0')*64+(s[i+2]-'0')*8+(s[i+3]-'0'))
			i += 3
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
