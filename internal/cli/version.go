package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintf(cmd.OutOrStdout(), "jira-categorize %s\n", Version)
				return
			}
			printVersionBanner()
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version string")

	return cmd
}
