package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ShellType
	}{
		{"/bin/bash", ShellBash},
		{"/usr/bin/zsh", ShellZsh},
		{"/usr/local/bin/fish", ShellFish},
		{"-bash", ShellBash},
		{"pwsh.exe", ShellPowerShell},
		{"PowerShell", ShellPowerShell},
		{"/bin/ksh", ShellUnknown},
		{"", ShellUnknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		shellEnv   string
		parent     string
		parentErr  error
		wantShell  ShellType
		wantMethod string
	}{
		{
			name:       "Bash from SHELL",
			shellEnv:   "/bin/bash",
			parent:     "fish",
			wantShell:  ShellBash,
			wantMethod: "$SHELL environment variable",
		},
		{
			name:       "Unknown SHELL falls back to parent",
			shellEnv:   "/bin/ksh",
			parent:     "zsh",
			wantShell:  ShellZsh,
			wantMethod: "parent process",
		},
		{
			name:       "Empty SHELL falls back to parent",
			parent:     "pwsh",
			wantShell:  ShellPowerShell,
			wantMethod: "parent process",
		},
		{
			name:       "Nothing conclusive",
			parentErr:  errors.New("no such process"),
			wantShell:  ShellUnknown,
			wantMethod: "detection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detector{
				getenv: func(string) string { return tt.shellEnv },
				parentName: func(context.Context) (string, error) {
					return tt.parent, tt.parentErr
				},
			}
			got := d.detect(context.Background())
			if got.Shell != tt.wantShell {
				t.Errorf("Shell = %q, want %q", got.Shell, tt.wantShell)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}
		})
	}
}

func TestPathSnippet(t *testing.T) {
	for _, s := range SupportedShells() {
		t.Run(s.String(), func(t *testing.T) {
			got, err := PathSnippet(s, "/home/me/.gotool/bin")
			if err != nil {
				t.Fatalf("PathSnippet: %v", err)
			}
			if !strings.Contains(got, "'/home/me/.gotool/bin'") {
				t.Errorf("snippet %q does not quote the bin dir", got)
			}
		})
	}

	if _, err := PathSnippet(ShellUnknown, "/x"); err == nil {
		t.Error("expected error for unknown shell")
	}
}

func TestPathSnippet_QuotesSingleQuote(t *testing.T) {
	got, err := PathSnippet(ShellBash, "/tmp/it's")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `'/tmp/it'\''s'`) {
		t.Errorf("single quote not escaped: %q", got)
	}
}

// The bash snippet must prepend once and be a no-op when sourced again.
func TestPathSnippet_BashIsIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	bin := filepath.Join(t.TempDir(), "bin dir")
	snippet, err := PathSnippet(ShellBash, bin)
	if err != nil {
		t.Fatal(err)
	}

	script := snippet + snippet + `printf '%s' "$PATH"`
	cmd := exec.Command(sh, "-c", script)
	cmd.Env = append(os.Environ(), "PATH=/usr/bin:/bin")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("run snippet: %v", err)
	}

	want := bin + ":/usr/bin:/bin"
	if string(out) != want {
		t.Errorf("PATH = %q, want %q", out, want)
	}
}
