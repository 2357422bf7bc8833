package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// goarchAliases maps kernel and vendor architecture names to GOARCH values.
var goarchAliases = map[string]string{
	"amd64":    "amd64",
	"x86_64":   "amd64",
	"x64":      "amd64",
	"arm64":    "arm64",
	"aarch64":  "arm64",
	"armv8":    "arm64",
	"386":      "386",
	"i386":     "386",
	"i686":     "386",
	"x86":      "386",
	"arm":      "arm",
	"armv6l":   "arm",
	"armv7l":   "arm",
	"armhf":    "arm",
	"ppc64le":  "ppc64le",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"loong64":  "loong64",
	"mips64le": "mips64le",
}

// normalizeArch converts kernel or GOARCH values to GOARCH names.
func normalizeArch(arch string) (string, error) {
	if goarch, ok := goarchAliases[strings.ToLower(strings.TrimSpace(arch))]; ok {
		return goarch, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedArchitecture, arch)
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
