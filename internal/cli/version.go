package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "identifyme %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", CommitSHA)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", BuildDate)
		},
	}
}
