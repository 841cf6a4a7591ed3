package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rtrash/internal/config"
	"rtrash/internal/resolver"
	"rtrash/internal/trash"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "no arguments shows help",
			args: nil,
			want: options{command: cmdHelp},
		},
		{
			name: "targets",
			args: []string{"a.txt", "dir"},
			want: options{command: cmdRemove, targets: []string{"a.txt", "dir"}},
		},
		{
			name: "dry run and verbose",
			args: []string{"--dry", "-v", "a.txt"},
			want: options{command: cmdRemove, targets: []string{"a.txt"}, dryRun: true, verbose: true},
		},
		{
			name: "double dash ends options",
			args: []string{"--", "--dry", "-v"},
			want: options{command: cmdRemove, targets: []string{"--dry", "-v"}},
		},
		{
			name: "help wins",
			args: []string{"a.txt", "--help"},
			want: options{command: cmdHelp, targets: []string{"a.txt"}},
		},
		{
			name: "empty with filters",
			args: []string{"empty", "--older-than=30d", "--size=+1MB", "--include=*.log", "--include=*.tmp"},
			want: options{command: cmdEmpty, olderThan: "30d", sizeFilter: "+1MB", include: []string{"*.log", "*.tmp"}},
		},
		{
			name: "list",
			args: []string{"list"},
			want: options{command: cmdList},
		},
		{
			name: "subcommand after flags",
			args: []string{"-v", "--no-progress", "empty"},
			want: options{command: cmdEmpty, verbose: true, noProgress: true},
		},
		{
			name: "list after a flag",
			args: []string{"--no-progress", "list"},
			want: options{command: cmdList, noProgress: true},
		},
		{
			name: "empty after double dash is a file",
			args: []string{"-v", "--", "empty"},
			want: options{command: cmdRemove, targets: []string{"empty"}, verbose: true},
		},
		{
			name: "empty as a later argument is a file",
			args: []string{"a.txt", "empty"},
			want: options{command: cmdRemove, targets: []string{"a.txt", "empty"}},
		},
		{
			name:    "unknown option",
			args:    []string{"--force", "a.txt"},
			wantErr: true,
		},
		{
			name:    "filters need empty",
			args:    []string{"--older-than=1d", "a.txt"},
			wantErr: true,
		},
		{
			name:    "empty takes no files",
			args:    []string{"empty", "a.txt"},
			wantErr: true,
		},
		{
			name:    "dry only for remove",
			args:    []string{"empty", "--dry"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, *got)
		})
	}
}

func TestCreateFilterOptions(t *testing.T) {
	now := time.Unix(1700000000, 0)

	f, err := createFilterOptions(&options{
		olderThan:    "2d",
		sizeFilter:   "-1KB",
		regexPattern: `\.log$`,
	}, now)
	require.NoError(t, err)
	require.NotNil(t, f.OlderThan)
	require.Equal(t, now.Add(-48*time.Hour), *f.OlderThan)
	require.Nil(t, f.NewerThan)
	require.Equal(t, "-", f.SizeOp)
	require.Equal(t, int64(1024), f.SizeFilter)
	require.True(t, f.Regex.MatchString("app.log"))

	_, err = createFilterOptions(&options{olderThan: "soon"}, now)
	require.Error(t, err)

	_, err = createFilterOptions(&options{sizeFilter: "+"}, now)
	require.Error(t, err)

	_, err = createFilterOptions(&options{regexPattern: "("}, now)
	require.Error(t, err)
}

func newTestManager(t *testing.T) (*trash.Manager, string) {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	work := filepath.Join(home, "work")
	require.NoError(t, os.MkdirAll(work, 0755))

	cfg := &config.Config{HomeDir: home, WorkDir: work}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return trash.NewManager(cfg, resolver.NewSingleVolume(home), trash.WithLogger(logger)), work
}

func TestHandleRemove(t *testing.T) {
	mgr, work := newTestManager(t)
	path := filepath.Join(work, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	t.Run("dry run leaves the file", func(t *testing.T) {
		var out bytes.Buffer
		err := handleRemove(&out, mgr, &options{targets: []string{"notes.txt"}, dryRun: true}, true)
		require.NoError(t, err)
		require.Contains(t, out.String(), path+" -> ")
		require.FileExists(t, path)
	})

	t.Run("moves the file", func(t *testing.T) {
		var out bytes.Buffer
		err := handleRemove(&out, mgr, &options{targets: []string{"notes.txt"}}, false)
		require.NoError(t, err)
		require.Contains(t, out.String(), "Moved to trash: 1 files")
		require.NoFileExists(t, path)
	})

	t.Run("reports failures", func(t *testing.T) {
		var out bytes.Buffer
		err := handleRemove(&out, mgr, &options{targets: []string{"missing.txt"}}, false)
		require.EqualError(t, err, "1 of 1 files could not be moved to trash")
		require.Contains(t, out.String(), filepath.Join(work, "missing.txt"))
	})
}

func TestHandleListAndEmpty(t *testing.T) {
	mgr, work := newTestManager(t)

	var out bytes.Buffer
	require.NoError(t, handleList(&out, mgr))
	require.Contains(t, out.String(), "Trash is empty.")

	for _, name := range []string{"a.log", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(work, name), []byte("data"), 0644))
	}
	_, err := mgr.Remove([]string{"a.log", "b.txt"}, false, nil)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, handleList(&out, mgr))
	require.Contains(t, out.String(), "2 items")
	require.Contains(t, out.String(), "Original: "+filepath.Join(work, "a.log"))

	out.Reset()
	require.NoError(t, handleEmpty(&out, mgr, &options{command: cmdEmpty, include: []string{"*.log"}}, false))
	require.Contains(t, out.String(), "Deleting 1 matching items")
	require.Contains(t, out.String(), "Deleted 1 items")

	out.Reset()
	require.NoError(t, handleEmpty(&out, mgr, &options{command: cmdEmpty}, false))
	require.Contains(t, out.String(), "Deleting all 1 items")
	require.Contains(t, out.String(), "Deleted 1 items")

	out.Reset()
	require.NoError(t, handleEmpty(&out, mgr, &options{command: cmdEmpty}, false))
	require.Contains(t, out.String(), "Nothing to delete")
	require.FileExists(t, mgr.HistoryPath())
}
