package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedArchitecture is returned when an architecture identifier is
// not known to the toolchain distribution.
var ErrUnsupportedArchitecture = errors.New("unsupported architecture")

// goArchitectures maps generic CPU identifiers onto the architecture segment
// of Go distribution archive names (go<version>.<os>-<arch>.<format>).
// Add a row to support a new architecture.
var goArchitectures = map[string]string{
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
	"arm":      "armv6l",
	"armv6l":   "armv6l",
	"armv7l":   "armv6l",
	"armhf":    "armv6l",
	"ppc64le":  "ppc64le",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"loong64":  "loong64",
	"mips64le": "mips64le",
}

// ResolveArchitecture returns the distribution architecture name for a
// generic identifier such as "x86_64" or "arm64". Lookup is case-insensitive
// and ignores surrounding whitespace.
func ResolveArchitecture(generic string) (string, error) {
	if arch, ok := goArchitectures[strings.ToLower(strings.TrimSpace(generic))]; ok {
		return arch, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedArchitecture, generic)
}

// SupportedArchitectures returns every identifier ResolveArchitecture accepts, sorted.
func SupportedArchitectures() []string {
	names := make([]string, 0, len(goArchitectures))
	for name := range goArchitectures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
