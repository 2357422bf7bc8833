package link

import (
	"fmt"
	"io"
	"os"
)

// windowsManager links with a hard link and falls back to copying the
// executable. It is selected by OS name, not build tag, so it also runs
// (and is tested) on POSIX hosts.
type windowsManager struct{}

func (windowsManager) RemoveLink(path string) error {
	return removeEntry(path)
}

func (windowsManager) CreateLink(target, linkPath string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat link target: %w", err)
	}
	if err := ensureParent(linkPath); err != nil {
		return err
	}
	if err := removeEntry(linkPath); err != nil {
		return err
	}

	if err := os.Link(target, linkPath); err == nil {
		return nil
	}

	return copyExecutable(target, linkPath, info.Mode().Perm()|0111)
}

// copyExecutable writes a copy of src to dst via a temp file and rename.
func copyExecutable(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer in.Close()

	tmpPath := dst + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create link copy: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		out.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy executable: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close link copy: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename link copy: %w", err)
	}

	cleanupNeeded = false
	return nil
}
