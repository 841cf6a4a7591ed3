//go:build unix

package mover

import (
	"errors"

	"golang.org/x/sys/unix"
)

// sameDevice compares the device of src (not followed) with the device of dir.
// ok is false when either cannot be stat'ed.
func sameDevice(src, dir string) (same bool, ok bool) {
	var a, b unix.Stat_t
	if err := unix.Lstat(src, &a); err != nil {
		return false, false
	}
	if err := unix.Stat(dir, &b); err != nil {
		return false, false
	}
	return a.Dev == b.Dev, true
}

func isCrossDeviceError(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
