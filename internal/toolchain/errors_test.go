package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

func TestStageOf(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want Stage
	}{
		{"nil", nil, StageUnknown},
		{"plain", cause, StageUnknown},
		{"unsupported arch", fmt.Errorf("%w: sparc", platform.ErrUnsupportedArchitecture), StageResolve},
		{"unsupported format", fmt.Errorf("%w: x.rar", ErrUnsupportedFormat), StageResolve},
		{"empty version", ErrEmptyVersion, StageResolve},
		{"download", &DownloadError{URL: "u", StatusCode: 500}, StageDownload},
		{"wrapped download", fmt.Errorf("install: %w", &DownloadError{URL: "u", Err: cause}), StageDownload},
		{"extract", &ExtractionError{Archive: "a", Target: "t", Err: cause}, StageExtract},
		{"layout", &LayoutError{Root: "r", Reason: "install root is empty"}, StageResolveRoot},
		{"missing", &MissingExecutableError{Command: "go", Path: "p", Err: fs.ErrNotExist}, StageLink},
		{"link", &LinkError{Command: "go", LinkPath: "l", Err: cause}, StageLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageOf(tt.err); got != tt.want {
				t.Errorf("StageOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"download status", &DownloadError{URL: "https://x/go.zip", StatusCode: 404}, []string{"https://x/go.zip", "404"}},
		{"download transport", &DownloadError{URL: "https://x/go.zip", Err: cause}, []string{"https://x/go.zip", "boom"}},
		{"extract with stderr", &ExtractionError{Archive: "a.tar.gz", Target: "t", Stderr: "gzip: stdin: not in gzip format", Err: cause}, []string{"a.tar.gz", "not in gzip format"}},
		{"layout", &LayoutError{Root: "/v/go", Reason: "install root is empty"}, []string{"/v/go", "empty"}},
		{"missing", &MissingExecutableError{Command: "gofmt", Path: "/v/go/bin/gofmt"}, []string{"gofmt", "/v/go/bin/gofmt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("%q should contain %q", msg, w)
				}
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	if !errors.Is(&MissingExecutableError{Err: fs.ErrNotExist}, fs.ErrNotExist) {
		t.Error("MissingExecutableError should unwrap to its cause")
	}
	if !errors.Is(&ExtractionError{Err: ErrUnsupportedFormat}, ErrUnsupportedFormat) {
		t.Error("ExtractionError should unwrap to its cause")
	}
}
