// Package platform reports the host operating system and CPU architecture
// and maps them onto the names used by Go toolchain distributions.
//
// Detection uses runtime.GOOS for the OS and gopsutil for the kernel
// architecture and Linux distribution. Distribution details are optional:
// when gopsutil cannot read them the Info still carries OS and Arch.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // GOARCH-style name, e.g. "amd64", "arm64", "386", "arm"
	ArchRaw  string // kernel-reported name, e.g. "x86_64", "aarch64"
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (Linux only, e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool { return i.OS == "linux" }

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool { return i.OS == "darwin" }

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool { return i.OS == "windows" }

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool { return i.Arch == "amd64" }

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool { return i.Arch == "arm64" }

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool { return i.IsMacOS() && i.IsARM64() }

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used when the OS and
// architecture are supplied explicitly instead of detected.
type StaticDetector struct {
	Info *Info
}

// Detect returns a copy of the configured Info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if s.Info == nil {
		return nil, errNoInfo
	}
	info := *s.Info
	return &info, nil
}
