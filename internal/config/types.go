package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultURLTemplate is the upstream Go distribution naming scheme.
const DefaultURLTemplate = "https://go.dev/dl/go${version}.${osType}-${architecture}.${format}"

// DefaultTarCommand is the external tar binary used for .tar.gz archives.
const DefaultTarCommand = "tar"

// Limits applied to user configuration.
const (
	MaxConfigSize   = 1 << 20
	MaxCommandCount = 64
)

// Config is the installer configuration.
type Config struct {
	// URLTemplate may contain ${version}, ${osType}, ${architecture} and ${format}.
	URLTemplate string `toml:"url_template"`

	// ProbeCommand is run in the binary directory to check for a usable install.
	ProbeCommand []string `toml:"probe"`

	// Commands maps a logical command name to the link it gets in the binary directory.
	Commands map[string]Command `toml:"commands"`

	// BinDir and VendorDir may start with "~". Empty means the default under GOTOOL_HOME.
	BinDir    string `toml:"bin_dir"`
	VendorDir string `toml:"vendor_dir"`

	TarCommand string `toml:"tar"`
}

// Command describes one executable exposed in the binary directory.
type Command struct {
	// Link is the file name created in the binary directory.
	Link string `toml:"link"`
	// Posix is the executable path relative to the install root on non-Windows systems.
	Posix string `toml:"nix"`
	// Windows is the executable path relative to the install root on Windows.
	Windows string `toml:"win"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		URLTemplate:  DefaultURLTemplate,
		ProbeCommand: []string{"go", "version"},
		Commands: map[string]Command{
			"go":    {Link: "go", Posix: "bin/go", Windows: "go/bin/go.exe"},
			"gofmt": {Link: "gofmt", Posix: "bin/gofmt", Windows: "go/bin/gofmt.exe"},
		},
		TarCommand: DefaultTarCommand,
	}
}

// WithDefaults returns a copy of c with every unset field taken from Default().
// A non-empty command table replaces the default table; it is not merged.
func (c Config) WithDefaults() Config {
	def := Default()
	out := c.Clone()
	if out.URLTemplate == "" {
		out.URLTemplate = def.URLTemplate
	}
	if len(out.ProbeCommand) == 0 {
		out.ProbeCommand = def.ProbeCommand
	}
	if len(out.Commands) == 0 {
		out.Commands = def.Commands
	}
	if out.TarCommand == "" {
		out.TarCommand = def.TarCommand
	}
	return out
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	if c.ProbeCommand != nil {
		out.ProbeCommand = append([]string(nil), c.ProbeCommand...)
	}
	if c.Commands != nil {
		out.Commands = make(map[string]Command, len(c.Commands))
		for name, cmd := range c.Commands {
			out.Commands[name] = cmd
		}
	}
	return out
}

// CommandNames returns the logical command names in sorted order.
func (c Config) CommandNames() []string {
	names := make([]string, 0, len(c.Commands))
	for name := range c.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a fully defaulted Config.
func (c *Config) Validate() error {
	if err := validateURLTemplate(c.URLTemplate); err != nil {
		return &ValidationError{Field: "url_template", Message: err.Error()}
	}

	if len(c.ProbeCommand) == 0 || strings.TrimSpace(c.ProbeCommand[0]) == "" {
		return &ValidationError{Field: "probe", Message: "probe command cannot be empty"}
	}

	if strings.TrimSpace(c.TarCommand) == "" {
		return &ValidationError{Field: "tar", Message: "tar command cannot be empty"}
	}

	if len(c.Commands) == 0 {
		return &ValidationError{Field: "commands", Message: "at least one command is required"}
	}
	if len(c.Commands) > MaxCommandCount {
		return &ValidationError{
			Field:   "commands",
			Message: fmt.Sprintf("too many commands (%d), maximum is %d", len(c.Commands), MaxCommandCount),
		}
	}

	for _, name := range c.CommandNames() {
		cmd := c.Commands[name]
		field := "commands." + name
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Field: "commands", Message: "command name cannot be empty"}
		}
		if err := validateLinkName(cmd.Link); err != nil {
			return &ValidationError{Field: field + ".link", Message: err.Error()}
		}
		if err := validateRelPath(cmd.Posix); err != nil {
			return &ValidationError{Field: field + ".nix", Message: err.Error()}
		}
		if err := validateRelPath(cmd.Windows); err != nil {
			return &ValidationError{Field: field + ".win", Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateURLTemplate substitutes sample values and requires an absolute
// http(s) URL whose path names an archive.
func validateURLTemplate(tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if !strings.Contains(tmpl, "${version}") {
		return fmt.Errorf("template must contain ${version}")
	}

	sample := strings.NewReplacer(
		"${version}", "1.0.0",
		"${osType}", "linux",
		"${architecture}", "amd64",
		"${format}", "tar.gz",
	).Replace(tmpl)

	u, err := url.Parse(sample)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	if base := filepath.Base(u.Path); base == "." || base == "/" {
		return fmt.Errorf("URL path must name an archive file")
	}
	return nil
}

func validateLinkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("link name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("link name must be a plain file name: %q", name)
	}
	return nil
}

func validateRelPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("executable path cannot be empty")
	}
	slashed := strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(p) || (len(p) > 1 && p[1] == ':') {
		return fmt.Errorf("executable path must be relative: %q", p)
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return fmt.Errorf("executable path must not contain '..': %q", p)
		}
	}
	return nil
}
