package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/gotool/internal/config"
	"github.com/ZebulonRouseFrantzich/gotool/internal/link"
)

// Logger is the logging interface used by the installer. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Installer installs toolchain versions for one Context.
type Installer struct {
	ctx       Context
	cfg       config.Config
	logger    Logger
	fetcher   Fetcher
	extractor Extractor
	links     link.Manager
	runner    CommandRunner
}

// Option configures an Installer.
type Option func(*Installer)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithDownloader replaces the archive Fetcher.
func WithDownloader(f Fetcher) Option {
	return func(i *Installer) { i.fetcher = f }
}

// WithExtractor replaces the archive Extractor.
func WithExtractor(e Extractor) Option {
	return func(i *Installer) { i.extractor = e }
}

// WithLinkManager replaces the link manager chosen from the context's OS.
func WithLinkManager(m link.Manager) Option {
	return func(i *Installer) { i.links = m }
}

// WithCommandRunner replaces the runner used by IsInstalled.
func WithCommandRunner(r CommandRunner) Option {
	return func(i *Installer) { i.runner = r }
}

// New creates an Installer. Unset config fields take their defaults and
// the result must validate.
func New(c Context, cfg config.Config, opts ...Option) (*Installer, error) {
	if c.BinDir() == "" || c.VendorDir() == "" || c.OSType() == "" {
		return nil, fmt.Errorf("context is not initialised; use NewContext")
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	i := &Installer{
		ctx:    c,
		cfg:    cfg,
		logger: noopLogger{},
		links:  link.ForOS(c.OSType()),
		runner: execRunner,
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.fetcher == nil {
		i.fetcher = NewDownloader()
	}
	if i.extractor == nil {
		i.extractor = NewExtractor(cfg.TarCommand)
	}
	return i, nil
}

// Context returns the installer's context.
func (i *Installer) Context() Context { return i.ctx }

// DownloadURL returns the archive URL for version.
func (i *Installer) DownloadURL(version string) (string, error) {
	req, err := NewInstallRequest(version, i.ctx)
	if err != nil {
		return "", err
	}
	return BuildDownloadURL(i.cfg.URLTemplate, req), nil
}

// Commands returns the configured commands sorted by logical name.
func (i *Installer) Commands() []CommandSpec {
	names := i.cfg.CommandNames()
	specs := make([]CommandSpec, 0, len(names))
	for _, name := range names {
		cmd := i.cfg.Commands[name]
		specs = append(specs, CommandSpec{
			LogicalName:              name,
			LinkFileName:             cmd.Link,
			PosixExecutableRelPath:   cmd.Posix,
			WindowsExecutableRelPath: cmd.Windows,
		})
	}
	return specs
}

// Install downloads version, unpacks it into the vendor directory and
// relinks every configured command. Re-running it for the same version
// replaces the previous extraction. A failure part way leaves whatever
// earlier stages produced.
func (i *Installer) Install(ctx context.Context, version string) (*Result, error) {
	start := time.Now()

	url, err := i.DownloadURL(version)
	if err != nil {
		return nil, err
	}

	target, err := ResolveTarget(url, i.ctx.VendorDir())
	if err != nil {
		return nil, err
	}

	i.logger.Info("downloading toolchain", "version", version, "url", url)
	if err := i.fetcher.Fetch(ctx, url, target.LocalArchivePath); err != nil {
		return nil, asDownloadError(url, err)
	}

	root, err := i.extract(ctx, target)
	if err != nil {
		return nil, err
	}

	links, err := i.linkCommands(root.RootDir)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Version:     strings.TrimSpace(version),
		URL:         url,
		InstallRoot: root.RootDir,
		Links:       links,
		Duration:    time.Since(start),
	}
	i.logger.Info("toolchain installed", "version", res.Version, "root", res.InstallRoot, "duration", res.Duration)
	return res, nil
}

func (i *Installer) extract(ctx context.Context, target DownloadTarget) (ExtractionResult, error) {
	if err := clearAndCreate(target.TargetDir); err != nil {
		return ExtractionResult{}, &ExtractionError{
			Archive: target.LocalArchivePath,
			Target:  target.TargetDir,
			Err:     err,
		}
	}

	i.logger.Debug("extracting archive", "archive", target.LocalArchivePath, "format", target.Format.String(), "target", target.TargetDir)
	if err := i.extractor.Extract(ctx, target.LocalArchivePath, target.Format, target.TargetDir); err != nil {
		return ExtractionResult{}, asExtractionError(target, err)
	}

	if err := os.Remove(target.LocalArchivePath); err != nil && !os.IsNotExist(err) {
		i.logger.Warn("failed to remove archive", "archive", target.LocalArchivePath, "error", err)
	}

	rootDir, err := resolveInstallRoot(target.TargetDir)
	if err != nil {
		return ExtractionResult{}, err
	}
	return ExtractionResult{RootDir: rootDir}, nil
}

// resolveInstallRoot returns <target>/<basename(target)> when the archive
// unpacked into a folder named after itself, else target.
func resolveInstallRoot(targetDir string) (string, error) {
	root := targetDir
	nested := filepath.Join(targetDir, filepath.Base(targetDir))
	if info, err := os.Stat(nested); err == nil && info.IsDir() {
		root = nested
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", &LayoutError{Root: root, Reason: "cannot read install root", Err: err}
	}
	if len(entries) == 0 {
		return "", &LayoutError{Root: root, Reason: "install root is empty"}
	}
	return root, nil
}

func (i *Installer) linkCommands(root string) ([]LinkBinding, error) {
	specs := i.Commands()
	bindings := make([]LinkBinding, 0, len(specs))

	for _, cs := range specs {
		linkPath := filepath.Join(i.ctx.BinDir(), i.linkFileName(cs))
		if err := i.links.RemoveLink(linkPath); err != nil {
			return bindings, &LinkError{Command: cs.LogicalName, LinkPath: linkPath, Err: err}
		}

		rel := cs.PosixExecutableRelPath
		if i.ctx.IsWindows() {
			rel = cs.WindowsExecutableRelPath
		}
		exe := filepath.Join(root, filepath.FromSlash(rel))

		if _, err := os.Stat(exe); err != nil {
			return bindings, &MissingExecutableError{Command: cs.LogicalName, Path: exe, Err: err}
		}

		if err := i.links.CreateLink(exe, linkPath); err != nil {
			return bindings, &LinkError{Command: cs.LogicalName, LinkPath: linkPath, Err: err}
		}
		i.logger.Debug("linked command", "command", cs.LogicalName, "link", linkPath, "target", exe)
		bindings = append(bindings, LinkBinding{LinkPath: linkPath, TargetExecutablePath: exe})
	}

	return bindings, nil
}

func (i *Installer) linkFileName(cs CommandSpec) string {
	name := cs.LinkFileName
	if i.ctx.IsWindows() && filepath.Ext(name) == "" {
		name += ".exe"
	}
	return name
}

func asExtractionError(target DownloadTarget, err error) error {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExtractionError{Archive: target.LocalArchivePath, Target: target.TargetDir, Err: err}
}
