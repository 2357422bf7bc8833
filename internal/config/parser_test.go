package config

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

type mockDetector struct {
	info *platform.Info
	err  error
}

func (m *mockDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return m.info, m.err
}

func TestParser_ParseString_Minimal(t *testing.T) {
	cfg, err := NewParser(nil).ParseString(context.Background(), `gotool = {}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	def := Default()
	if !reflect.DeepEqual(*cfg, def) {
		t.Errorf("empty table should yield defaults\ngot:  %+v\nwant: %+v", *cfg, def)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	luaCode := `
		gotool = {
			url_template = "https://mirror.example.com/golang/go${version}.${osType}-${architecture}.${format}",
			probe = { "go", "env", "GOVERSION" },
			tar = "gtar",
			bin_dir = "/opt/bin",
			vendor_dir = "/opt/vendor",
			commands = {
				go = { link = "go", nix = "bin/go", win = "go/bin/go.exe" },
				vet = { nix = "pkg/tool/vet", win = "go/pkg/tool/vet.exe" },
			},
		}
	`

	cfg, err := NewParser(nil).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if cfg.URLTemplate != "https://mirror.example.com/golang/go${version}.${osType}-${architecture}.${format}" {
		t.Errorf("URLTemplate = %q", cfg.URLTemplate)
	}
	if !reflect.DeepEqual(cfg.ProbeCommand, []string{"go", "env", "GOVERSION"}) {
		t.Errorf("ProbeCommand = %v", cfg.ProbeCommand)
	}
	if cfg.TarCommand != "gtar" || cfg.BinDir != "/opt/bin" || cfg.VendorDir != "/opt/vendor" {
		t.Errorf("scalar fields = %q %q %q", cfg.TarCommand, cfg.BinDir, cfg.VendorDir)
	}
	if got := cfg.Commands["vet"]; got.Link != "vet" {
		t.Errorf("link should default to command name, got %+v", got)
	}
	if len(cfg.Commands) != 2 {
		t.Errorf("Commands = %v, want 2 entries", cfg.Commands)
	}
}

func TestParser_ParseString_PlatformConditionals(t *testing.T) {
	luaCode := `
		gotool = {
			bin_dir = platform.is_windows and "C:/tools/bin" or "/usr/local/bin",
			commands = {
				go = { nix = "bin/go", win = "go/bin/go.exe" },
				gofmt = platform.is_linux and { nix = "bin/gofmt", win = "go/bin/gofmt.exe" } or nil,
			},
		}
	`

	tests := []struct {
		name         string
		info         *platform.Info
		wantBinDir   string
		wantCommands int
	}{
		{"linux", &platform.Info{OS: "linux", Arch: "amd64"}, "/usr/local/bin", 2},
		{"windows", &platform.Info{OS: "windows", Arch: "amd64"}, "C:/tools/bin", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewParser(&mockDetector{info: tt.info}).ParseString(context.Background(), luaCode)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if cfg.BinDir != tt.wantBinDir {
				t.Errorf("BinDir = %q, want %q", cfg.BinDir, tt.wantBinDir)
			}
			if len(cfg.Commands) != tt.wantCommands {
				t.Errorf("Commands = %v, want %d entries", cfg.Commands, tt.wantCommands)
			}
		})
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
	}{
		{"syntax error", `gotool = {`, "Lua error"},
		{"missing table", `x = 1`, "missing or invalid 'gotool' table"},
		{"table is string", `gotool = "nope"`, "missing or invalid 'gotool' table"},
		{"template not string", `gotool = { url_template = 5 }`, "invalid field url_template"},
		{"probe not table", `gotool = { probe = "go version" }`, "invalid field probe"},
		{"probe element not string", `gotool = { probe = { "go", 1 } }`, "invalid field probe[2]"},
		{"command not table", `gotool = { commands = { go = "bin/go" } }`, "invalid field commands.go"},
		{"command field wrong type", `gotool = { commands = { go = { nix = true } } }`, "commands.go"},
		{"validation failure", `gotool = { url_template = "https://go.dev/dl/latest.tar.gz" }`, "config validation failed"},
		{"sandbox blocks os", `os.execute("true"); gotool = {}`, "Lua error"},
		{"sandbox blocks io", `io.open("/etc/passwd"); gotool = {}`, "Lua error"},
		{"sandbox blocks require", `require("os"); gotool = {}`, "Lua error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseString(context.Background(), tt.code)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %T %v, want *ParseError", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParser_ParseString_ValidationErrorUnwraps(t *testing.T) {
	_, err := NewParser(nil).ParseString(context.Background(), `gotool = { tar = " " }`)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want wrapped *ValidationError", err)
	}
	if ve.Field != "tar" {
		t.Errorf("Field = %q, want tar", ve.Field)
	}
}

func TestParser_ParseString_DetectorError(t *testing.T) {
	detectErr := errors.New("boom")
	_, err := NewParser(&mockDetector{err: detectErr}).ParseString(context.Background(), `gotool = {}`)
	if !errors.Is(err, detectErr) {
		t.Errorf("error = %v, want wrapped detector error", err)
	}
}

func TestParser_ParseString_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil).ParseString(ctx, `while true do end`)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestParser_ParseString_TooLarge(t *testing.T) {
	code := "gotool = {}\n--" + strings.Repeat("x", MaxConfigSize)
	_, err := NewParser(nil).ParseString(context.Background(), code)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want too large", err)
	}
}

type recordingLogger struct {
	noopLogger
	debug []string
}

func (r *recordingLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.debug = append(r.debug, msg)
}

func TestParser_WithLogger(t *testing.T) {
	logger := &recordingLogger{}
	if _, err := NewParser(nil).WithLogger(logger).ParseString(context.Background(), `gotool = {}`); err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(logger.debug) != 1 {
		t.Errorf("debug messages = %v, want one", logger.debug)
	}
}
