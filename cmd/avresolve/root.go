package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "avresolve",
		Short:         "Resolve media file names to normalized metadata records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newResolveCommand(&configFlag))
	rootCmd.AddCommand(newScanCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
