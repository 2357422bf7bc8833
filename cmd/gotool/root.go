package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/gotool/internal/config"
	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
	"github.com/ZebulonRouseFrantzich/gotool/internal/toolchain"
)

// EnvDebug enables debug logging when set to any non-empty value.
const EnvDebug = "GOTOOL_DEBUG"

// newDetector is swapped out by tests to avoid host probing.
var newDetector = platform.NewDetector

type globalOptions struct {
	configPath string
	binDir     string
	vendorDir  string
	osType     string
	arch       string
	debug      bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "gotool",
		Short:         "Install Go toolchains and link their commands",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (.lua or .toml)")
	flags.StringVar(&opts.binDir, "bin-dir", "", "directory for command links")
	flags.StringVar(&opts.vendorDir, "vendor-dir", "", "directory for downloaded toolchains")
	flags.StringVar(&opts.osType, "os", "", "override the detected operating system")
	flags.StringVar(&opts.arch, "arch", "", "override the detected architecture")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newInstallCmd(opts),
		newStatusCmd(opts),
		newURLCmd(opts),
		newPlatformCmd(opts),
		newEnvCmd(opts),
	)
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug || os.Getenv(EnvDebug) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session is everything a subcommand needs after flags are applied.
type session struct {
	logger *slog.Logger
	info   *platform.Info
	cfg    config.Config
	tc     toolchain.Context
}

func (o *globalOptions) detectPlatform(ctx context.Context) (*platform.Info, error) {
	info, err := newDetector().Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	if o.osType != "" {
		info.OS = strings.ToLower(strings.TrimSpace(o.osType))
		info.Platform, info.Family, info.Version = "", "", ""
	}
	if o.arch != "" {
		info.Arch = strings.TrimSpace(o.arch)
		info.ArchRaw = info.Arch
	}
	return info, nil
}

func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), o.debug)

	info, err := o.detectPlatform(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("platform", "os", info.OS, "arch", info.Arch, "arch_raw", info.ArchRaw)

	cfg, err := config.Load(ctx, o.configPath, platform.StaticDetector{Info: info}, logger)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.binDir != "" {
		cfg.BinDir = o.binDir
	}
	if o.vendorDir != "" {
		cfg.VendorDir = o.vendorDir
	}
	binDir, vendorDir, err := config.ResolveDirs(*cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("directories", "bin", binDir, "vendor", vendorDir)

	tc, err := toolchain.NewContext(info, binDir, vendorDir)
	if err != nil {
		return nil, err
	}

	return &session{logger: logger, info: info, cfg: *cfg, tc: tc}, nil
}

func (s *session) installer(opts ...toolchain.Option) (*toolchain.Installer, error) {
	opts = append([]toolchain.Option{toolchain.WithLogger(s.logger)}, opts...)
	return toolchain.New(s.tc, s.cfg, opts...)
}

func okMark() string   { return color.GreenString("✓") }
func failMark() string { return color.RedString("✗") }
