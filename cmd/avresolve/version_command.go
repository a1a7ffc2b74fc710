package main

import (
	"github.com/spf13/cobra"

	"github.com/sydlexius/avresolve/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("avresolve %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
