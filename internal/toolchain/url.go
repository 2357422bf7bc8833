package toolchain

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

// Template placeholders.
const (
	placeholderVersion      = "${version}"
	placeholderOSType       = "${osType}"
	placeholderArchitecture = "${architecture}"
	placeholderFormat       = "${format}"
)

// NewInstallRequest resolves version against the context's platform.
func NewInstallRequest(version string, c Context) (InstallRequest, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return InstallRequest{}, ErrEmptyVersion
	}

	arch, err := platform.ResolveArchitecture(c.Architecture())
	if err != nil {
		return InstallRequest{}, err
	}

	return InstallRequest{
		Version:      version,
		OSType:       strings.ToLower(c.OSType()),
		Architecture: arch,
	}, nil
}

// BuildDownloadURL substitutes req into template. Substitution is literal;
// nothing is escaped.
func BuildDownloadURL(template string, req InstallRequest) string {
	r := strings.NewReplacer(
		placeholderVersion, req.Version,
		placeholderOSType, req.OSType,
		placeholderArchitecture, req.Architecture,
		placeholderFormat, FormatForOS(req.OSType).String(),
	)
	return r.Replace(template)
}

// ResolveTarget derives the local archive path, format and extraction
// directory for rawURL inside vendorDir.
func ResolveTarget(rawURL, vendorDir string) (DownloadTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DownloadTarget{}, fmt.Errorf("parse download URL: %w", err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return DownloadTarget{}, fmt.Errorf("download URL %q has no file name", rawURL)
	}

	format := FormatOf(name)
	if format == FormatUnknown {
		return DownloadTarget{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if len(name) == len(format.Ext()) {
		return DownloadTarget{}, fmt.Errorf("archive name %q has no stem", name)
	}

	archivePath := filepath.Join(vendorDir, name)
	return DownloadTarget{
		URL:              rawURL,
		LocalArchivePath: archivePath,
		Format:           format,
		TargetDir:        archivePath[:len(archivePath)-len(format.Ext())],
	}, nil
}
