package shell

import (
	"path/filepath"
	"strings"
)

// ShellType represents a supported shell
type ShellType string

const (
	ShellBash       ShellType = "bash"
	ShellZsh        ShellType = "zsh"
	ShellFish       ShellType = "fish"
	ShellPowerShell ShellType = "powershell"
	ShellUnknown    ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish, ShellPowerShell:
		return true
	default:
		return false
	}
}

// SupportedShells returns the shells a snippet can be rendered for.
func SupportedShells() []ShellType {
	return []ShellType{ShellBash, ShellZsh, ShellFish, ShellPowerShell}
}

// Parse maps a shell name or executable path to a ShellType.
// Examples:
//   - /bin/bash -> bash
//   - /usr/local/bin/fish -> fish
//   - pwsh.exe -> powershell
func Parse(nameOrPath string) ShellType {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(nameOrPath)))
	base = strings.TrimSuffix(base, ".exe")
	base = strings.TrimPrefix(base, "-") // login shells show up as "-bash"

	switch base {
	case "bash", "sh":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	case "powershell", "pwsh":
		return ShellPowerShell
	default:
		return ShellUnknown
	}
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return "unsupported shell: " + e.Shell
}
