package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/version"
)

func newVersionCmd(ver string) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "weekplan %s\n", ver)
			if !check {
				return nil
			}
			res := version.NewChecker().CheckForUpdate(cmd.Context(), ver)
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "You are up to date (or checked within the last day).")
				return nil
			}
			version.PrintUpdateNotice(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", true, "Check GitHub for a newer release")
	return cmd
}
