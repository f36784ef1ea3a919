//go:build linux

package build

import (
	"golang.org/x/sys/unix"
)

// HostArch returns the machine name the kernel reports, which is the
// architecture name clang uses for its runtime libraries.
func HostArch() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}

	machine := unix.ByteSliceToString(uts.Machine[:])

	return normalizeArch(machine)
}
