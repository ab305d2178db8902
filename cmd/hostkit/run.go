package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build the host and run it until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildHost(cmd, v, false)
			if err != nil {
				return err
			}
			defer s.shutdown(cmd.Context())

			s.host.Summary(cmd.Context()).Render(cmd.OutOrStdout())
			return s.host.Run(cmd.Context())
		},
	}
}
