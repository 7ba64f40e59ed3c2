package aerovaldb

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Lock is the advisory lock guarding read-modify-write sequences on a
// storage root.  Acquire blocks until exclusive ownership is obtained;
// Release always succeeds and hands the resource to the next waiter.
// IsLocked reports local ownership only -- it cannot claim knowledge of
// what other processes hold.
type Lock interface {
	Acquire() error
	Release() error
	IsLocked() bool
}

// FileLock composes two levels of exclusion: a process-local mutex
// serializing goroutines within one runtime, and an OS advisory
// exclusive lock on a marker file for exclusion across processes.
// Acquire takes both in that order; Release reverses it.
type FileLock struct {
	path     string
	fh       *os.File
	mu       sync.Mutex // in-process gate, held while acquired
	stateMu  sync.Mutex
	acquired bool
}

// NewFileLock opens (creating if needed) the lock file at path.  The
// lock is not acquired yet.
func NewFileLock(path string) (l *FileLock, err error) {
	log.Debugf("initializing lock with lockfile %s", path)
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "create lock dir for %s", path)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open lockfile %s", path)
	}
	return &FileLock{path: path, fh: fh}, nil
}

// Acquire blocks until this handle owns the lock: first the in-process
// mutex, then the OS file lock.  The flock wait suspends only the
// calling goroutine.
func (l *FileLock) Acquire() (err error) {
	log.Debugf("acquiring lock with lockfile %s", l.path)
	l.mu.Lock()
	err = syscall.Flock(int(l.fh.Fd()), syscall.LOCK_EX)
	if err != nil {
		l.mu.Unlock()
		return errors.Wrapf(err, "flock %s", l.path)
	}
	l.setAcquired(true)
	return nil
}

// Release drops the OS lock, then the in-process mutex.  Errors from
// the OS unlock are logged but do not prevent release; the next waiter
// must always be able to proceed.
func (l *FileLock) Release() error {
	log.Debugf("releasing lock with lockfile %s", l.path)
	if err := syscall.Flock(int(l.fh.Fd()), syscall.LOCK_UN); err != nil {
		log.Warnf("funlock %s: %v", l.path, err)
	}
	l.setAcquired(false)
	l.mu.Unlock()
	return nil
}

// IsLocked reports whether this handle currently holds the lock.
func (l *FileLock) IsLocked() bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.acquired
}

// Close releases the lock file handle.  The lock must not be held.
func (l *FileLock) Close() error {
	return l.fh.Close()
}

func (l *FileLock) setAcquired(v bool) {
	l.stateMu.Lock()
	l.acquired = v
	l.stateMu.Unlock()
}

// FakeLock is for callers that accept losing cross-process consistency
// (locking disabled via AVDB_USE_LOCKING).  It reports itself
// permanently locked and never blocks.
type FakeLock struct{}

func (FakeLock) Acquire() error { return nil }
func (FakeLock) Release() error { return nil }
func (FakeLock) IsLocked() bool { return true }

// lockingEnabled reports whether the AVDB_USE_LOCKING environment
// variable asks for real cross-process locking.  Unset or "0" (and
// friends) means the fake lock is used.
func lockingEnabled() bool {
	return parseBool(os.Getenv("AVDB_USE_LOCKING"), false)
}

// lockFilePath returns the lock file location for a storage root,
// honoring the AVDB_LOCK_DIR override.
func lockFilePath(root string) string {
	dir := os.Getenv("AVDB_LOCK_DIR")
	if dir == "" {
		dir = root
	}
	return filepath.Join(dir, lockFileName)
}

const lockFileName = ".avdb.lock"

// parseBool parses an environment-style boolean, returning fallback for
// unrecognized values.
func parseBool(s string, fallback bool) bool {
	switch s {
	case "1", "true", "t", "yes", "y", "T", "TRUE", "True", "YES", "Y":
		return true
	case "0", "false", "f", "no", "n", "F", "FALSE", "False", "NO", "N":
		return false
	}
	return fallback
}
