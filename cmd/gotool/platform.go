package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
	"github.com/ZebulonRouseFrantzich/gotool/internal/toolchain"
)

func newPlatformCmd(opts *globalOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show the detected platform and distribution naming",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				_, _ = fmt.Fprintln(out, strings.Join(platform.SupportedArchitectures(), "\n"))
				return nil
			}

			info, err := opts.detectPlatform(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "os:           %s\n", info.OS)
			_, _ = fmt.Fprintf(out, "arch:         %s\n", info.Arch)
			if info.ArchRaw != "" && info.ArchRaw != info.Arch {
				_, _ = fmt.Fprintf(out, "arch (raw):   %s\n", info.ArchRaw)
			}
			if distro := info.GetDistro(); distro != nil {
				_, _ = fmt.Fprintf(out, "distro:       %s %s (%s family)\n", distro.ID, distro.Version, distro.Family)
			}

			goArch, err := platform.ResolveArchitecture(info.Arch)
			if err != nil {
				_, _ = fmt.Fprintf(out, "%s %v\n", failMark(), err)
				return &SilentExitError{Code: 1}
			}
			_, _ = fmt.Fprintf(out, "distribution: %s-%s.%s\n", info.OS, goArch, toolchain.FormatForOS(info.OS))
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list supported architecture names")
	return cmd
}
