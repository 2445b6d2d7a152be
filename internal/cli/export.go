package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"table-mapper/internal/catalog"
)

func newExportCommand(a *app) *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "export [packages...]",
		Short: "Write the resolved tables into a SQLite catalog",
		Example: `  table-mapper export --sqlite catalog.db ./models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.snapshot(cmd, args)
			if err != nil {
				return err
			}

			if err := catalog.Export(cmd.Context(), sqlitePath, snap); err != nil {
				return err
			}

			fp, err := snap.Fingerprint()
			if err != nil {
				return err
			}

			a.log.Info("catalog exported", zap.String("path", sqlitePath), zap.Int("tables", len(snap.Tables)))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d tables to %s (fingerprint %s)\n", len(snap.Tables), sqlitePath, fp)

			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite catalog file to write")
	_ = cmd.MarkFlagRequired("sqlite")

	return cmd
}
