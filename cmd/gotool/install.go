package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/gotool/internal/lock"
	"github.com/ZebulonRouseFrantzich/gotool/internal/toolchain"
)

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "install <version>",
		Short: "Download a Go toolchain and link its commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			installID := uuid.NewString()
			logger := s.logger.With("install_id", installID)

			l, err := lock.AcquireLock(cmd.Context(), s.tc.VendorDir())
			if err != nil {
				if errors.Is(err, lock.ErrLockExists) {
					return fmt.Errorf("another install is running in %s: %w", s.tc.VendorDir(), err)
				}
				return err
			}
			defer func() {
				if err := l.Release(); err != nil {
					logger.Warn("failed to release install lock", "error", err)
				}
			}()
			logger.Debug("acquired install lock", "lock_id", l.ID())

			var installOpts []toolchain.Option
			installOpts = append(installOpts, toolchain.WithLogger(logger))
			if !quiet {
				installOpts = append(installOpts, toolchain.WithDownloader(
					toolchain.NewDownloader().WithProgress(progressPrinter(cmd.ErrOrStderr())),
				))
			}

			inst, err := s.installer(installOpts...)
			if err != nil {
				return err
			}

			res, err := inst.Install(cmd.Context(), args[0])
			if err != nil {
				if stage := toolchain.StageOf(err); stage != toolchain.StageUnknown {
					logger.Error("install failed", "stage", string(stage), "error", err)
				}
				return err
			}

			_, _ = fmt.Fprintf(out, "%s Installed Go %s into %s\n", okMark(), res.Version, res.InstallRoot)
			for _, b := range res.Links {
				_, _ = fmt.Fprintf(out, "%s Linked %s -> %s\n", okMark(), b.LinkPath, b.TargetExecutablePath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print download progress")
	return cmd
}
