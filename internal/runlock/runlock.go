// Package runlock guarantees that only one cleaning run writes into an output
// root at a time.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the output root.
const FileName = ".mlhdclean.lock"

// ErrHeld indicates another process holds the lock.
var ErrHeld = errors.New("another mlhdclean run is writing to this output root")

// Lock is an acquired run lock.
type Lock struct {
	lock *flock.Flock
	path string
}

// Acquire takes the lock for writeRoot without blocking.
func Acquire(writeRoot string) (*Lock, error) {
	if err := os.MkdirAll(writeRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	path := filepath.Join(writeRoot, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrHeld, path)
	}
	return &Lock{lock: fl, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}
