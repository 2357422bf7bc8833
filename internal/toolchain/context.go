package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

// Context is the read-only host description an Installer works against.
type Context struct {
	osType       string
	architecture string
	binDir       string
	vendorDir    string
}

// NewContext builds a Context from detected platform info. The
// architecture is the generic GOARCH-style name; it is mapped to
// distribution naming only when a URL is built. Relative directories are
// made absolute against the working directory.
func NewContext(info *platform.Info, binDir, vendorDir string) (Context, error) {
	if info == nil {
		return Context{}, fmt.Errorf("platform info is required")
	}
	if info.OS == "" {
		return Context{}, fmt.Errorf("platform info has no OS")
	}

	arch := info.Arch
	if arch == "" {
		arch = info.ArchRaw
	}
	if arch == "" {
		return Context{}, fmt.Errorf("platform info has no architecture")
	}

	if binDir == "" {
		return Context{}, fmt.Errorf("bin dir is required")
	}
	if vendorDir == "" {
		return Context{}, fmt.Errorf("vendor dir is required")
	}

	// Links point at absolute targets; a relative target would resolve
	// against the link's own directory.
	absBin, err := filepath.Abs(binDir)
	if err != nil {
		return Context{}, fmt.Errorf("resolve bin dir: %w", err)
	}
	absVendor, err := filepath.Abs(vendorDir)
	if err != nil {
		return Context{}, fmt.Errorf("resolve vendor dir: %w", err)
	}

	return Context{
		osType:       strings.ToLower(info.OS),
		architecture: arch,
		binDir:       absBin,
		vendorDir:    absVendor,
	}, nil
}

// OSType returns the lower-cased operating system, e.g. "linux".
func (c Context) OSType() string { return c.osType }

// Architecture returns the generic architecture, e.g. "amd64" or "aarch64".
func (c Context) Architecture() string { return c.architecture }

// BinDir returns the directory links are created in.
func (c Context) BinDir() string { return c.binDir }

// VendorDir returns the directory archives are downloaded and unpacked in.
func (c Context) VendorDir() string { return c.vendorDir }

// IsWindows reports whether the context targets Windows.
func (c Context) IsWindows() bool { return c.osType == "windows" }
