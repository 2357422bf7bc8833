package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/gotool/internal/shell"
)

func newEnvCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env [shell]",
		Short: "Print shell code that adds the bin directory to PATH",
		Long: "Print shell code that adds the bin directory to PATH.\n\n" +
			"  eval \"$(gotool env)\"        # bash, zsh\n" +
			"  gotool env fish | source    # fish",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sh shell.ShellType
			if len(args) == 1 {
				sh = shell.Parse(args[0])
				if !sh.IsValid() {
					return &shell.UnsupportedShellError{Shell: args[0]}
				}
			} else {
				res := shell.Detect(cmd.Context())
				if !res.Shell.IsValid() {
					return fmt.Errorf("could not detect your shell; pass one of %v", shell.SupportedShells())
				}
				sh = res.Shell
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			snippet, err := shell.PathSnippet(sh, s.tc.BinDir())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
}
