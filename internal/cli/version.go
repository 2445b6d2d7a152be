package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"table-mapper/internal/catalog"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)

			title.Fprint(out, "table-mapper version: ")
			fmt.Fprintln(out, Version)

			title.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)

			title.Fprint(out, "Catalog format: ")
			fmt.Fprintln(out, catalog.Version)

			title.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}
