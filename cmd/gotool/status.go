package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a usable Go toolchain is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			inst, err := s.installer()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			version, ok := inst.IsInstalled(cmd.Context())
			if !ok {
				_, _ = fmt.Fprintf(out, "%s No usable toolchain found (bin dir %s)\n", failMark(), s.tc.BinDir())
				return &SilentExitError{Code: 1}
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", okMark(), version)
			return nil
		},
	}
}
