// cmd/version.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the released version of the inspection tool
const Version = "v1.0.0"

// newVersionCmd creates the version subcommand
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", Version)
		},
	}
}
