package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDescribeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Build the host and print its summary without running it",
		Long: `describe builds the host with startup errors captured, prints the
options, hosting startup outcomes and registrations, and shuts the host down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildHost(cmd, v, true)
			if err != nil {
				return err
			}
			defer s.shutdown(cmd.Context())

			s.host.Summary(cmd.Context()).Render(cmd.OutOrStdout())
			return s.host.Shutdown(cmd.Context())
		},
	}
}
