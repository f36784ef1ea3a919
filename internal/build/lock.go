package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// LockFileName guards an output dir against concurrent builds.
const LockFileName = ".lock"

// ErrBuildLocked is returned when another build holds the output dir.
var ErrBuildLocked = errors.New("another build is running in the output dir")

// dirLock is an exclusive flock(2) on <dir>/.lock. The lock file is never
// removed; only the flock matters.
type dirLock struct {
	f *os.File
}

// lockDir takes the lock without blocking.
func lockDir(dir string) (*dirLock, error) {
	path := filepath.Join(dir, LockFileName)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}

	if err != nil {
		_ = f.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrBuildLocked, path)
		}

		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &dirLock{f: f}, nil
}

// Close releases the lock. Calling it twice is safe.
func (l *dirLock) Close() error {
	if l.f == nil {
		return nil
	}

	unlockErr := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil

	return errors.Join(unlockErr, closeErr)
}
