// pattern: Imperative Shell

// package instance enforces a single running tagsentry daemon per
// state directory via an exclusive file lock.
package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "tagsentry.lock"
	pidFileName  = "tagsentry.pid"
)

// Lock acquires an exclusive file lock for single-instance enforcement
// and records the daemon's pid. Returns the flock handle (caller must
// defer Cleanup) or an error if another instance already holds the
// lock.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	lockPath := filepath.Join(dataDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another tagsentry instance is already running")
	}

	pidPath := filepath.Join(dataDir, pidFileName)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("write pid file: %w", err)
	}

	return fl, nil
}

// RunningPid reports the pid of a running instance, or 0 when none is
// running. Used by status checks before trying to start a daemon.
func RunningPid(dataDir string) (int, error) {
	lockPath := filepath.Join(dataDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to check instance lock: %w", err)
	}
	if locked {
		// No instance running; release the lock we just acquired.
		_ = fl.Unlock()
		return 0, nil
	}

	data, err := os.ReadFile(filepath.Join(dataDir, pidFileName))
	if err != nil {
		return 0, fmt.Errorf("instance detected but pid file unreadable: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file: %w", err)
	}
	return pid, nil
}

// Cleanup removes the pid file and releases the file lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	pidPath := filepath.Join(dataDir, pidFileName)
	_ = os.Remove(pidPath)
	if fl != nil {
		_ = fl.Unlock()
	}
}
