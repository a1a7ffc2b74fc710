package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(configFlag *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a directory for media files and resolve each one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configFlag)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("found %d media files under %s\n", len(result.Candidates), result.Root)

			if dryRun {
				for _, c := range result.Candidates {
					cmd.Println(c.Path)
				}
				return nil
			}

			failures := 0
			for _, c := range result.Candidates {
				if !a.resolveOne(cmd.Context(), cmd, c.Path) {
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed to resolve", failures, len(result.Candidates))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List candidates without resolving")
	return cmd
}
