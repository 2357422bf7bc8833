// Package lock serialises installs that share a vendor directory.
//
// The toolchain installer itself does no locking; callers that may run
// concurrently take this advisory lock around Install.
package lock

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	// FileName is the lock file created inside the locked directory.
	FileName = "install.lock"

	// StaleLockThreshold is the age after which a lock whose owner process
	// has exited is considered stale. A lock held by a live process is
	// never stale, however old.
	StaleLockThreshold = 10 * time.Minute
)

// ErrLockExists is returned when another install holds the lock.
var ErrLockExists = errors.New("install lock exists: another install may be in progress")

// Lock is a held install lock.
type Lock struct {
	path string
	file *os.File
	id   string
}

// AcquireLock takes the lock in dir, creating dir if needed. It uses
// O_CREATE|O_EXCL so exactly one caller wins; a stale lock is removed and
// acquisition retried once.
func AcquireLock(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, FileName)

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if stale, _ := isLockStale(ctx, lockPath); !stale {
			return nil, ErrLockExists
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLockExists
		}
	}

	id := uuid.NewString()
	lockData := fmt.Sprintf("id=%s\npid=%d\ntimestamp=%s\n", id, os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file, id: id}, nil
}

// ID returns the unique owner id written into the lock file.
func (l *Lock) ID() string { return l.id }

// Release releases the lock. Releasing twice is not an error.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}

	return nil
}

// isLockStale reports whether lockPath is older than StaleLockThreshold
// and its recorded owner is no longer running.
func isLockStale(ctx context.Context, lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}
	if time.Since(info.ModTime()) <= StaleLockThreshold {
		return false, nil
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		return false, err
	}
	pid, ok := ownerPID(data)
	if !ok {
		return true, nil
	}
	alive, err := process.PidExistsWithContext(ctx, pid)
	if err != nil {
		return false, err
	}
	return !alive, nil
}

// ownerPID reads the pid= line written by AcquireLock.
func ownerPID(data []byte) (int32, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		value, found := strings.CutPrefix(sc.Text(), "pid=")
		if !found {
			continue
		}
		pid, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil || pid <= 0 {
			return 0, false
		}
		return int32(pid), true
	}
	return 0, false
}
