package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

var errNoInfo = errors.New("platform info is required")

// RealDetector implements Detector using the running host.
type RealDetector struct {
	goos         func() string
	kernelArch   func(ctx context.Context) (string, error)
	platformInfo func(ctx context.Context) (string, string, string, error)
}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{
		goos:         func() string { return runtime.GOOS },
		kernelArch:   func(context.Context) (string, error) { return host.KernelArch() },
		platformInfo: host.PlatformInformationWithContext,
	}
}

// Detect performs platform detection and returns platform information.
//
// The architecture comes from the kernel rather than runtime.GOARCH so that a
// 386 build of gotool running on an x86_64 host still installs the amd64
// toolchain. When the kernel query fails, runtime.GOARCH is used.
//
// On Linux, distribution lookup failures are tolerated: the distro fields stay
// empty. A cancelled context is always a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{OS: d.goos()}

	raw, err := d.kernelArch(ctx)
	if err != nil || raw == "" {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		raw = runtime.GOARCH
	}
	info.ArchRaw = raw

	arch, err := normalizeArch(raw)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	info.Arch = arch

	if info.OS != "linux" {
		return info, nil
	}

	platform, family, version, err := d.platformInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}
