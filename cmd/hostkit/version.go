package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/hostkit/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.GetFullVersion())
			fmt.Fprintf(out, "  go:    %s\n", info.GoVersion)
			fmt.Fprintf(out, "  built: %s\n", info.BuildTime)
		},
	}
}
