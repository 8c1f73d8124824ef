// cmd/show.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
)

// newShowCmd creates the show subcommand
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <report.json>",
		Short: "Print a saved inspection",
		Long: `Prints an inspection saved by a previous run. The JSON copy of every
report is kept in the .data directory next to the AsciiDoc report.`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	saved, err := report.LoadCheckResults(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Host:     %s\n", saved.Hostname)
	fmt.Fprintf(out, "Started:  %s\n", saved.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration: %s\n\n", saved.Duration())

	printer := report.NewConsolePrinter(out)
	printer.Print(saved)
	return nil
}
