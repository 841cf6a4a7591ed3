package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMakeAbsolute(t *testing.T) {
	t.Run("relative path is joined onto cwd", func(t *testing.T) {
		require.Equal(t, "/home/brandon/hello.txt", MakeAbsolute("/home/brandon", "hello.txt"))
		require.Equal(t, "/home/brandon/a/b.txt", MakeAbsolute("/home/brandon", "a/b.txt"))
	})

	t.Run("absolute path is unchanged", func(t *testing.T) {
		require.Equal(t, "/home/brandon/hello.txt", MakeAbsolute("/home/brandon", "/home/brandon/hello.txt"))
		require.Equal(t, "/etc/hosts", MakeAbsolute("/home/brandon", "/etc/hosts"))
	})

	t.Run("root cwd", func(t *testing.T) {
		require.Equal(t, "/hello.txt", MakeAbsolute("/", "hello.txt"))
	})
}

func TestParseSizeFilter(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		op       string
		wantErr  bool
	}{
		{"100", 100, "+", false},
		{"+1KB", 1024, "+", false},
		{"-1M", 1024 * 1024, "-", false},
		{"+1GB", 1024 * 1024 * 1024, "+", false},
		{"", 0, "", true},
		{"+", 0, "", true},
		{"1X", 0, "", true},
	}

	for _, tt := range tests {
		got, op, err := ParseSizeFilter(tt.input)
		if tt.wantErr {
			require.Error(t, err, "ParseSizeFilter(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseSizeFilter(%q)", tt.input)
		require.Equal(t, tt.expected, got, "ParseSizeFilter(%q)", tt.input)
		require.Equal(t, tt.op, op, "ParseSizeFilter(%q)", tt.input)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"1s", time.Second, false},
		{"1m", time.Minute, false},
		{"1h", time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"1mo", 30 * 24 * time.Hour, false},
		{"1y", 365 * 24 * time.Hour, false},
		{"2.5h", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.wantErr {
			require.Error(t, err, "ParseDuration(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseDuration(%q)", tt.input)
		require.Equal(t, tt.expected, got, "ParseDuration(%q)", tt.input)
	}
}

func TestFormatSize(t *testing.T) {
	require.NotEmpty(t, FormatSize(0))
	require.NotEmpty(t, FormatSize(1536))
	require.Equal(t, FormatSize(0), FormatSize(-5))
}
