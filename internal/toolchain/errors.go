package toolchain

import (
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

// Stage names a step of the install pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageUnknown     Stage = ""
	StageResolve     Stage = "resolve"
	StageDownload    Stage = "download"
	StageExtract     Stage = "extract"
	StageResolveRoot Stage = "resolve-root"
	StageLink        Stage = "link"
)

var (
	// ErrEmptyVersion is returned when no version is requested.
	ErrEmptyVersion = errors.New("version is required")

	// ErrUnsupportedFormat is returned when the archive name ends in neither
	// .zip nor .tar.gz.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
)

// DownloadError reports a failed archive fetch.
type DownloadError struct {
	URL string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError reports a failure to clear the target directory or to
// unpack the archive into it.
type ExtractionError struct {
	Archive string
	Target  string
	// Stderr holds the external tar's diagnostics, if any.
	Stderr string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %s into %s: %v", e.Archive, e.Target, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// LayoutError reports an extracted tree with no usable install root.
type LayoutError struct {
	Root   string
	Reason string
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("install root %s: %s", e.Root, e.Reason)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// MissingExecutableError reports a command whose executable is not in the
// install root.
type MissingExecutableError struct {
	Command string
	Path    string
	Err     error
}

func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("command %s: executable not found at %s", e.Command, e.Path)
}

func (e *MissingExecutableError) Unwrap() error { return e.Err }

// LinkError reports a failure to replace a link in the bin directory.
type LinkError struct {
	Command  string
	LinkPath string
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s at %s: %v", e.Command, e.LinkPath, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// StageOf reports which pipeline stage produced err. Stage error types
// take precedence over the sentinels they may wrap.
func StageOf(err error) Stage {
	if err == nil {
		return StageUnknown
	}

	var (
		downloadErr *DownloadError
		extractErr  *ExtractionError
		layoutErr   *LayoutError
		missingErr  *MissingExecutableError
		linkErr     *LinkError
	)
	switch {
	case errors.As(err, &downloadErr):
		return StageDownload
	case errors.As(err, &extractErr):
		return StageExtract
	case errors.As(err, &layoutErr):
		return StageResolveRoot
	case errors.As(err, &missingErr), errors.As(err, &linkErr):
		return StageLink
	case errors.Is(err, platform.ErrUnsupportedArchitecture),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrEmptyVersion):
		return StageResolve
	default:
		return StageUnknown
	}
}
