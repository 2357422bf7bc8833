package toolchain

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/gotool/internal/config"
)

// Extractor unpacks an archive into an existing, empty directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath string, format ArchiveFormat, destDir string) error
}

// ArchiveExtractor is the default Extractor. Zip archives are unpacked
// in-process as-is; tarballs are handed to an external tar that strips the
// top-level directory.
type ArchiveExtractor struct {
	tarCommand string
}

// NewExtractor creates an ArchiveExtractor that runs tarCommand for
// tarballs. An empty tarCommand means "tar".
func NewExtractor(tarCommand string) *ArchiveExtractor {
	if tarCommand == "" {
		tarCommand = config.DefaultTarCommand
	}
	return &ArchiveExtractor{tarCommand: tarCommand}
}

// Extract dispatches on format. Failures are *ExtractionError.
func (e *ArchiveExtractor) Extract(ctx context.Context, archivePath string, format ArchiveFormat, destDir string) error {
	switch format {
	case FormatZip:
		if err := extractZip(archivePath, destDir); err != nil {
			return &ExtractionError{Archive: archivePath, Target: destDir, Err: err}
		}
		return nil
	case FormatTarGz:
		return e.extractTar(ctx, archivePath, destDir)
	default:
		return &ExtractionError{
			Archive: archivePath,
			Target:  destDir,
			Err:     fmt.Errorf("%w: %s", ErrUnsupportedFormat, format),
		}
	}
}

// extractTar runs: tar -xzf <archive> --strip-components=1 -C <dest>
// from the archive's directory.
func (e *ArchiveExtractor) extractTar(ctx context.Context, archivePath, destDir string) error {
	cmd := exec.CommandContext(ctx, e.tarCommand,
		"-xzf", archivePath,
		"--strip-components=1",
		"-C", destDir,
	)
	cmd.Dir = filepath.Dir(archivePath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExtractionError{
			Archive: archivePath,
			Target:  destDir,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     fmt.Errorf("run %s: %w", e.tarCommand, err),
		}
	}
	return nil
}

func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	realRoot, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", destDir, err)
	}

	for _, f := range zr.File {
		if err := extractZipEntry(f, destDir, realRoot); err != nil {
			return err
		}
	}
	return nil
}

// extractZipEntry writes one entry. realRoot is destDir with symlinks
// resolved; entries may not reach outside it through links created by
// earlier entries.
func extractZipEntry(f *zip.File, destDir, realRoot string) error {
	target, err := withinDir(destDir, f.Name)
	if err != nil {
		return err
	}
	if err := resolvesWithin(realRoot, target); err != nil {
		return err
	}

	mode := f.Mode()
	switch {
	case mode.IsDir():
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", target, err)
		}
		return nil

	case mode&os.ModeSymlink != 0:
		linkname, err := readZipEntry(f)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create parent dir for %s: %w", target, err)
		}
		if err := linkStaysWithin(realRoot, target, string(linkname)); err != nil {
			return err
		}
		if err := os.Symlink(string(linkname), target); err != nil {
			return fmt.Errorf("create symlink %s: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	return out.Close()
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

var errPathTraversal = errors.New("illegal file path")

// withinDir joins name onto dir and rejects results that escape dir.
func withinDir(dir, name string) (string, error) {
	root := filepath.Clean(dir)
	target := filepath.Join(root, filepath.FromSlash(name))
	if !isWithin(root, target) {
		return "", fmt.Errorf("%w: %s", errPathTraversal, name)
	}
	return target, nil
}

// resolvesWithin follows symlinks in the deepest existing prefix of
// target and rejects it if that lands outside realRoot.
func resolvesWithin(realRoot, target string) error {
	existing := target
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errPathTraversal, target, err)
	}
	if !isWithin(realRoot, resolved) {
		return fmt.Errorf("%w: %s resolves to %s", errPathTraversal, target, resolved)
	}
	return nil
}

// linkStaysWithin rejects a symlink at target whose destination is
// absolute or leaves realRoot.
func linkStaysWithin(realRoot, target, linkname string) error {
	if filepath.IsAbs(linkname) || filepath.VolumeName(linkname) != "" {
		return fmt.Errorf("%w: %s links to absolute path %s", errPathTraversal, target, linkname)
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", filepath.Dir(target), err)
	}
	if !isWithin(realRoot, filepath.Join(parent, filepath.FromSlash(linkname))) {
		return fmt.Errorf("%w: %s links outside the archive to %s", errPathTraversal, target, linkname)
	}
	return nil
}

func isWithin(root, p string) bool {
	return p == root || strings.HasPrefix(p, root+string(os.PathSeparator))
}

// clearAndCreate leaves dir as an empty directory whatever was there
// before. RemoveAll does not follow symlinks.
func clearAndCreate(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
