package shell

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	Shell  ShellType
	Method string
	Path   string
}

// detector holds the lookups Detect uses so tests can replace them.
type detector struct {
	getenv     func(string) string
	parentName func(ctx context.Context) (string, error)
}

var defaultDetector = detector{
	getenv:     os.Getenv,
	parentName: parentProcessName,
}

// Detect finds the user's shell: $SHELL first, then the parent process.
// The result has ShellUnknown when neither is conclusive.
func Detect(ctx context.Context) DetectionResult {
	return defaultDetector.detect(ctx)
}

func (d detector) detect(ctx context.Context) DetectionResult {
	if path := d.getenv("SHELL"); path != "" {
		if s := Parse(path); s.IsValid() {
			return DetectionResult{Shell: s, Method: "$SHELL environment variable", Path: path}
		}
	}

	if name, err := d.parentName(ctx); err == nil && name != "" {
		if s := Parse(name); s.IsValid() {
			return DetectionResult{Shell: s, Method: "parent process", Path: name}
		}
	}

	return DetectionResult{Shell: ShellUnknown, Method: "detection failed"}
}

func parentProcessName(ctx context.Context) (string, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}
