package mtab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rtrash/internal/model"
)

func writeMtab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mtab")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	t.Run("well formed lines", func(t *testing.T) {
		path := writeMtab(t, "/dev/sda1 /mnt/ext4 ext4 rw,relatime 0 0\n"+
			"tmpfs /mnt/tmpfs tmpfs rw,relatime 0 0\n")

		volumes, err := Parse(path)
		require.NoError(t, err)
		require.Len(t, volumes, 2)
		require.Equal(t, MountedVolume{
			Device:         "/dev/sda1",
			MountPoint:     "/mnt/ext4",
			FilesystemType: "ext4",
			Options:        "rw,relatime",
		}, volumes[0])
		require.Equal(t, "/mnt/tmpfs", volumes[1].MountPoint)
	})

	t.Run("comments and short lines are skipped", func(t *testing.T) {
		path := writeMtab(t, "/dev/sda1 /mnt/ext4 ext4 rw,relatime 0 0\n"+
			"# This is a comment\n"+
			"   # indented comment\n"+
			"\n"+
			"short /mnt/short ext4\n"+
			"tmpfs /mnt/tmpfs tmpfs rw,relatime 0 0\n")

		volumes, err := Parse(path)
		require.NoError(t, err)
		require.Equal(t, []string{"/mnt/ext4", "/mnt/tmpfs"}, MountPoints(volumes))
	})

	t.Run("exactly four fields is enough", func(t *testing.T) {
		volumes, err := Parse(writeMtab(t, "proc /proc proc rw"))
		require.NoError(t, err)
		require.Len(t, volumes, 1)
	})

	t.Run("empty file", func(t *testing.T) {
		volumes, err := Parse(writeMtab(t, ""))
		require.NoError(t, err)
		require.Empty(t, volumes)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nonexistent"))
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("escaped mount points", func(t *testing.T) {
		volumes, err := Parse(writeMtab(t, `/dev/sdb1 /media/my\040disk vfat rw 0 0`))
		require.NoError(t, err)
		require.Equal(t, "/media/my disk", volumes[0].MountPoint)
	})
}

func TestUnescape(t *testing.T) {
	require.Equal(t, "/plain", unescape("/plain"))
	require.Equal(t, "/a b", unescape(`/a\040b`))
	require.Equal(t, `/trailing\04`, unescape(`/trailing\04`))
	require.Equal(t, "/end ", unescape(`/end\040`))
}
