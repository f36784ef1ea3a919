//go:build !linux

package build

import "runtime"

// HostArch maps GOARCH to the clang architecture name.
func HostArch() (string, error) {
	return normalizeArch(runtime.GOARCH)
}
