// Package testutil provides utilities for testing gotool in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the directories created by SetupTestEnv.
type Env struct {
	Home      string
	BinDir    string
	VendorDir string
}

// SetupTestEnv points GOTOOL_HOME at a fresh temp directory so tests never
// touch a real toolchain install. Cleanup is handled by t.TempDir().
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	home := t.TempDir()
	t.Setenv("GOTOOL_HOME", home)
	t.Setenv("GOTOOL_DEBUG", "")

	env := Env{
		Home:      home,
		BinDir:    filepath.Join(home, "bin"),
		VendorDir: filepath.Join(home, "vendor"),
	}

	for _, dir := range []string{env.BinDir, env.VendorDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}
