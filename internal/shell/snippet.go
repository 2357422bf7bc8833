package shell

import (
	"fmt"
	"strings"
)

// PathSnippet returns shell code that prepends binDir to PATH unless it is
// already there.
func PathSnippet(s ShellType, binDir string) (string, error) {
	switch s {
	case ShellBash, ShellZsh:
		q := posixQuote(binDir)
		return fmt.Sprintf("case \":$PATH:\" in\n  *:%s:*) ;;\n  *) export PATH=%s:\"$PATH\" ;;\nesac\n", q, q), nil
	case ShellFish:
		return fmt.Sprintf("fish_add_path --prepend --path %s\n", posixQuote(binDir)), nil
	case ShellPowerShell:
		q := psQuote(binDir)
		return fmt.Sprintf("if (-not ($env:PATH -split [IO.Path]::PathSeparator -contains %s)) { $env:PATH = %s + [IO.Path]::PathSeparator + $env:PATH }\n", q, q), nil
	default:
		return "", &UnsupportedShellError{Shell: s.String()}
	}
}

// posixQuote single-quotes s for sh-compatible shells and fish.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
