// Package link creates and removes the command entries that live in the
// binary directory and point at executables inside an installed toolchain.
//
// On POSIX systems an entry is a symbolic link. Windows does not allow
// unprivileged symlinks, so there an entry is a hard link to the executable,
// or a copy of it when hard linking fails (e.g. across volumes). Callers pick
// the implementation once with ForOS and never branch on the OS themselves.
package link

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrIsDirectory is returned when a link path is occupied by a directory.
// Directories are never removed to make room for a link.
var ErrIsDirectory = errors.New("link path is a directory")

// Manager creates and removes a single link.
type Manager interface {
	// RemoveLink removes the entry at path. A missing entry is not an error.
	RemoveLink(path string) error
	// CreateLink makes linkPath resolve to target, replacing any existing entry.
	CreateLink(target, linkPath string) error
}

// ForOS returns the Manager for the given GOOS value.
func ForOS(osType string) Manager {
	if osType == "windows" {
		return windowsManager{}
	}
	return symlinkManager{}
}

// removeEntry removes a file or link at path without following it.
func removeEntry(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func ensureParent(linkPath string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return fmt.Errorf("create link dir: %w", err)
	}
	return nil
}
