// Package lockfile guards the contact database with a cross-process
// advisory lock so two syncs cannot interleave writes.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is a file lock tied to one database file. The sync command
// takes it before writing; a second dexsync process sharing the same
// database fails fast instead of corrupting a run in progress.
type Lock struct {
	path  string
	flock *flock.Flock
	held  bool
}

// ForDB creates the lock guarding the database at dbPath. The lock
// file lives next to the database with a .lock suffix.
func ForDB(dbPath string) *Lock {
	lockPath := dbPath + ".lock"
	return &Lock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock attempts to acquire the lock without blocking. It returns
// false when another process already holds it.
func (l *Lock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("creating lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", l.path, err)
	}
	l.held = acquired
	return acquired, nil
}

// Unlock releases the lock. Calling it on an unheld lock is a no-op.
func (l *Lock) Unlock() error {
	if !l.held {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		l.held = false
		return fmt.Errorf("releasing lock %s: %w", l.path, err)
	}
	l.held = false
	return nil
}

// Held reports whether this process currently holds the lock.
func (l *Lock) Held() bool {
	return l.held
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}
