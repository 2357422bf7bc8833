package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
	"github.com/mitchellh/go-homedir"
)

// EnvHome overrides the default gotool home directory.
const EnvHome = "GOTOOL_HOME"

// Load reads the config file at path. An empty path yields Default().
// The detector feeds the Lua platform table and is ignored for TOML.
func Load(ctx context.Context, path string, detector platform.Detector, logger Logger) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", expanded, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".lua":
		return NewParser(detector).WithLogger(logger).ParseString(ctx, string(data))
	case ".toml":
		return ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .lua or .toml)", filepath.Ext(expanded))
	}
}

// Home returns the gotool home directory: $GOTOOL_HOME, else ~/.gotool.
func Home() (string, error) {
	if env := os.Getenv(EnvHome); env != "" {
		return homedir.Expand(env)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".gotool"), nil
}

// ResolveDirs returns absolute binary and vendor directories for cfg,
// defaulting to <home>/bin and <home>/vendor.
func ResolveDirs(cfg Config) (binDir, vendorDir string, err error) {
	binDir, vendorDir = cfg.BinDir, cfg.VendorDir
	if binDir == "" || vendorDir == "" {
		home, err := Home()
		if err != nil {
			return "", "", err
		}
		if binDir == "" {
			binDir = filepath.Join(home, "bin")
		}
		if vendorDir == "" {
			vendorDir = filepath.Join(home, "vendor")
		}
	}

	if binDir, err = absPath(binDir); err != nil {
		return "", "", fmt.Errorf("resolve bin dir: %w", err)
	}
	if vendorDir, err = absPath(vendorDir); err != nil {
		return "", "", fmt.Errorf("resolve vendor dir: %w", err)
	}
	return binDir, vendorDir, nil
}

func absPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
