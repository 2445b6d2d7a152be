package cli

import (
	"github.com/spf13/cobra"

	"table-mapper/internal/catalog"
)

func newInspectCommand(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect [packages...]",
		Short: "Print the tables resolved from Go packages",
		Example: `  table-mapper inspect ./models
  table-mapper inspect -c tables.yaml --format yaml ./models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.snapshot(cmd, args)
			if err != nil {
				return err
			}

			if dump {
				dumpSnapshot(cmd.OutOrStdout(), snap)
				return nil
			}

			return writeSnapshot(cmd.OutOrStdout(), snap, a.settings.Format)
		},
	}

	cmd.Flags().StringP("format", "f", formatText, "output format: text, yaml or json")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the snapshot as a Go value")

	return cmd
}

// snapshot loads the packages and builds the snapshot of their tables.
func (a *app) snapshot(cmd *cobra.Command, args []string) (*catalog.Snapshot, error) {
	patterns, err := a.settings.patterns(args)
	if err != nil {
		return nil, err
	}

	ses, err := load(cmd.Context(), a.settings, a.log, patterns)
	if err != nil {
		if ses != nil {
			writeDiagnostics(cmd.ErrOrStderr(), ses.diags)
		}

		return nil, err
	}

	return catalog.Build(ses.builder)
}
