// Package lockfile provides process-wide mutual exclusion for any operation
// that mutates the store or the journal. The underlying exclusivity is
// provided by the vendored github.com/theckman/go-flock advisory file lock;
// on top of it we layer the engine's own stale-holder protocol (spec: the
// lock file's content is the holder's pid, and a holder whose pid is no
// longer alive is reclaimed rather than respected).
package lockfile

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
)

// Lock guards the path given to Acquire for the duration between Acquire
// and Release. It is not reentrant and not safe for concurrent use from
// multiple goroutines in the same process; the engine only ever has one
// mutating operation in flight at a time.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire attempts to take the lock at path, reclaiming it first if the
// recorded holder is no longer alive. It fails with herror.LockHeld if a
// live process holds it.
func Acquire(path string) (*Lock, error) {
	if err := reclaimIfStale(path); err != nil {
		return nil, err
	}

	fl := flock.NewFlock(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	if !locked {
		return nil, herror.New(herror.LockHeld, path)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		fl.Unlock()
		return nil, errors.Wrapf(err, "writing pid into %s", path)
	}

	return &Lock{path: path, fl: fl}, nil
}

// Release unlocks and removes the lock file. It is safe to call on every
// exit path, success or failure.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return errors.Wrapf(err, "unlocking %s", l.path)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", l.path)
	}
	return nil
}

// reclaimIfStale removes path if it names a process that is no longer
// alive. A file that is absent, empty, or unparsable is treated as no
// holder at all and left alone (the subsequent TryLock will succeed or fail
// on its own).
func reclaimIfStale(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return nil
	}

	if processAlive(pid) {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing stale lock %s", path)
	}
	return nil
}

// processAlive reports whether pid names a live process, using a
// zero-signal delivery to check for ESRCH without actually signaling it.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
