// Package lock provides flock-based file locks.
//
// The workspace lock keeps two relcut runs from driving the same clones;
// the history lock serializes appends to the release history.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// WorkspaceLockName is the lock file created in the workspace directory.
const WorkspaceLockName = ".relcut.lock"

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("lock is held by another process")

// FileLock provides exclusive file-based locking using flock.
type FileLock struct {
	path string
	file *os.File
}

// New creates a lock for path. The file is created on first lock.
func New(path string) *FileLock {
	return &FileLock{path: path}
}

// ForWorkspace returns the lock guarding the clones in workspace.
func ForWorkspace(workspace string) *FileLock {
	return New(filepath.Join(workspace, WorkspaceLockName))
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Lock acquires the lock, blocking until it is available.
func (l *FileLock) Lock() error {
	return l.acquire(syscall.LOCK_EX)
}

// TryLock acquires the lock without blocking.
// Returns ErrLocked if another process holds it.
func (l *FileLock) TryLock() error {
	err := l.acquire(syscall.LOCK_EX | syscall.LOCK_NB)
	if errors.Is(err, syscall.EWOULDBLOCK) {
		return fmt.Errorf("%s: %w", l.path, ErrLocked)
	}
	return err
}

func (l *FileLock) acquire(how int) error {
	if l.file != nil {
		return fmt.Errorf("%s: already locked", l.path)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Unlock releases the lock and closes the file.
// Unlocking a lock that is not held is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
