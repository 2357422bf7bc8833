package toolchain

import (
	"strings"
	"time"
)

// ArchiveFormat is the container format of a release archive.
type ArchiveFormat int

const (
	// FormatUnknown is returned for archive names with an unrecognised suffix.
	FormatUnknown ArchiveFormat = iota
	// FormatTarGz is a gzip-compressed tarball, unpacked by the external tar.
	FormatTarGz
	// FormatZip is a zip archive, unpacked in-process.
	FormatZip
)

// String returns the template value for the format ("tar.gz" or "zip").
func (f ArchiveFormat) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Ext returns the file name suffix for the format, including the leading dot.
func (f ArchiveFormat) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// FormatForOS returns the archive format published for osType.
func FormatForOS(osType string) ArchiveFormat {
	if strings.EqualFold(osType, "windows") {
		return FormatZip
	}
	return FormatTarGz
}

// FormatOf detects the archive format from a file name suffix.
func FormatOf(name string) ArchiveFormat {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, FormatZip.Ext()):
		return FormatZip
	case strings.HasSuffix(lower, FormatTarGz.Ext()):
		return FormatTarGz
	default:
		return FormatUnknown
	}
}

// InstallRequest is a fully resolved install. Architecture is already in
// distribution naming.
type InstallRequest struct {
	Version      string
	OSType       string
	Architecture string
}

// DownloadTarget describes where an archive comes from and where it lands.
type DownloadTarget struct {
	URL              string
	LocalArchivePath string
	Format           ArchiveFormat
	// TargetDir is the extraction directory: the archive path minus its
	// format suffix.
	TargetDir string
}

// ExtractionResult is the outcome of unpacking an archive.
type ExtractionResult struct {
	// RootDir is the directory executable paths are relative to.
	RootDir string
}

// CommandSpec binds a logical command to its link and executable paths.
type CommandSpec struct {
	LogicalName              string
	LinkFileName             string
	PosixExecutableRelPath   string
	WindowsExecutableRelPath string
}

// LinkBinding is a link created in the bin directory.
type LinkBinding struct {
	LinkPath             string
	TargetExecutablePath string
}

// Result summarises a completed install.
type Result struct {
	Version     string
	URL         string
	InstallRoot string
	Links       []LinkBinding
	Duration    time.Duration
}
