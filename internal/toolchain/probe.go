package toolchain

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner runs name with args in dir and returns its stdout.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// IsInstalled runs the probe command from the bin directory and returns
// the first line it prints. It reports false, never an error, when the
// probe cannot be found, cannot start or exits non-zero.
func (i *Installer) IsInstalled(ctx context.Context) (string, bool) {
	probe := i.cfg.ProbeCommand
	if len(probe) == 0 {
		return "", false
	}

	program, ok := i.resolveProbe(probe[0])
	if !ok {
		i.logger.Debug("probe command not found", "command", probe[0])
		return "", false
	}

	out, err := i.runner(ctx, i.ctx.BinDir(), program, probe[1:]...)
	if err != nil {
		i.logger.Debug("probe command failed", "command", program, "error", err)
		return "", false
	}

	return firstLine(out), true
}

// resolveProbe prefers an executable of the same name in the bin
// directory, then falls back to PATH. A relative path such as "./go" is
// taken relative to the bin directory, where the probe runs.
func (i *Installer) resolveProbe(name string) (string, bool) {
	if strings.ContainsAny(name, `/\`) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(i.ctx.BinDir(), filepath.FromSlash(name))
		}
		if _, err := os.Stat(name); err != nil {
			return "", false
		}
		return name, true
	}

	candidates := []string{name}
	if i.ctx.IsWindows() && filepath.Ext(name) == "" {
		candidates = append(candidates, name+".exe")
	}
	for _, c := range candidates {
		local := filepath.Join(i.ctx.BinDir(), c)
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, true
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

func firstLine(out []byte) string {
	line, _, _ := bytes.Cut(out, []byte("\n"))
	return strings.TrimSpace(string(line))
}
