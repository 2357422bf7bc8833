package testutil

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path"
	"sort"
	"strings"
	"testing"
)

// File is one archive entry. Names use forward slashes; a trailing slash
// marks a directory. Mode defaults to 0644 for files.
type File struct {
	Name    string
	Content string
	Mode    os.FileMode
	// Link, when set, makes the entry a symlink pointing at Link.
	Link string
}

// Exec is shorthand for an executable script entry.
func Exec(name, content string) File {
	return File{Name: name, Content: content, Mode: 0o755}
}

// WriteTarGz writes a gzip-compressed tarball at archivePath. Parent
// directory entries are emitted automatically.
func WriteTarGz(t *testing.T, archivePath string, files []File) {
	t.Helper()

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	for _, entry := range withParents(files) {
		hdr := &tar.Header{Name: entry.Name, Mode: int64(modeOf(entry))}
		switch {
		case isDir(entry):
			hdr.Typeflag = tar.TypeDir
		case entry.Link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = entry.Link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(entry.Content))
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header for %s: %v", entry.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(entry.Content)); err != nil {
				t.Fatalf("failed to write content for %s: %v", entry.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

// WriteZip writes a zip archive at archivePath. Parent directory entries
// are emitted automatically.
func WriteZip(t *testing.T, archivePath string, files []File) {
	t.Helper()

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, entry := range withParents(files) {
		hdr := &zip.FileHeader{Name: entry.Name, Method: zip.Deflate}
		mode := modeOf(entry)
		switch {
		case isDir(entry):
			mode |= os.ModeDir
			hdr.Method = zip.Store
		case entry.Link != "":
			mode |= os.ModeSymlink
		}
		hdr.SetMode(mode)

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("failed to write header for %s: %v", entry.Name, err)
		}

		body := entry.Content
		if entry.Link != "" {
			body = entry.Link
		}
		if !isDir(entry) {
			if _, err := w.Write([]byte(body)); err != nil {
				t.Fatalf("failed to write content for %s: %v", entry.Name, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
}

// GoDistribution returns the entries of a minimal Go release archive for
// goos: a single top-level "go/" directory holding bin/go and bin/gofmt.
func GoDistribution(goos string) []File {
	ext := ""
	if goos == "windows" {
		ext = ".exe"
	}
	return []File{
		Exec("go/bin/go"+ext, "#!/bin/sh\necho go version go0.0.0-test\n"),
		Exec("go/bin/gofmt"+ext, "#!/bin/sh\nexit 0\n"),
		{Name: "go/VERSION", Content: "go0.0.0-test\n"},
	}
}

func isDir(f File) bool {
	return strings.HasSuffix(f.Name, "/")
}

func modeOf(f File) os.FileMode {
	switch {
	case f.Mode != 0:
		return f.Mode
	case isDir(f):
		return 0o755
	case f.Link != "":
		return 0o777
	default:
		return 0o644
	}
}

// withParents returns files plus a directory entry for every missing
// ancestor, ordered so parents precede children.
func withParents(files []File) []File {
	seen := make(map[string]bool)
	for _, f := range files {
		if isDir(f) {
			seen[f.Name] = true
		}
	}

	out := make([]File, 0, len(files))
	for _, f := range files {
		for dir := path.Dir(trimSlash(f.Name)); dir != "." && dir != "/"; dir = path.Dir(dir) {
			name := dir + "/"
			if !seen[name] {
				seen[name] = true
				out = append(out, File{Name: name})
			}
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return depth(out[i].Name) < depth(out[j].Name)
	})
	return out
}

func trimSlash(name string) string {
	return strings.TrimSuffix(name, "/")
}

func depth(name string) int {
	return strings.Count(trimSlash(name), "/")
}
