package link

import (
	"fmt"
	"os"
)

// symlinkManager links with os.Symlink.
type symlinkManager struct{}

func (symlinkManager) RemoveLink(path string) error {
	return removeEntry(path)
}

func (symlinkManager) CreateLink(target, linkPath string) error {
	if err := ensureParent(linkPath); err != nil {
		return err
	}
	if err := removeEntry(linkPath); err != nil {
		return err
	}
	if err := os.Symlink(target, linkPath); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}
