package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newURLCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url <version>",
		Short: "Print the download URL for a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			inst, err := s.installer()
			if err != nil {
				return err
			}
			u, err := inst.DownloadURL(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}
