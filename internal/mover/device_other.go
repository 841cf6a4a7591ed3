//go:build !unix

package mover

func sameDevice(string, string) (bool, bool) {
	return false, false
}

func isCrossDeviceError(error) bool {
	return false
}
