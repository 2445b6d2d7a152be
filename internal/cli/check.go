package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"table-mapper/internal/catalog"
)

func newCheckCommand(a *app) *cobra.Command {
	var (
		fingerprint string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Validate the table configuration and the resolution",
		Long: `check validates the table configuration file against the loaded packages,
resolves every table and prints the fingerprint of the result. With
--fingerprint or --catalog it fails when the tables no longer match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := a.settings.patterns(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			ses, err := load(cmd.Context(), a.settings, a.log, patterns)
			if ses != nil {
				writeDiagnostics(out, ses.diags)
			}

			if err != nil {
				return err
			}

			snap, err := catalog.Build(ses.builder)
			if err != nil {
				return err
			}

			got, err := snap.Fingerprint()
			if err != nil {
				return err
			}

			if catalogPath != "" {
				fingerprint, err = storedFingerprint(cmd, catalogPath)
				if err != nil {
					return err
				}
			}

			color.New(color.FgGreen, color.Bold).Fprintf(out, "ok: ")
			fmt.Fprintf(out, "%d tables resolved, fingerprint %s\n", len(snap.Tables), got)

			if fingerprint != "" && fingerprint != got {
				return fmt.Errorf("fingerprint mismatch: tables resolve to %s, expected %s", got, fingerprint)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "expected fingerprint")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "compare with the fingerprint stored in a SQLite catalog")
	cmd.MarkFlagsMutuallyExclusive("fingerprint", "catalog")

	return cmd
}

func storedFingerprint(cmd *cobra.Command, path string) (string, error) {
	store, err := catalog.Open(path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	fp, err := store.Fingerprint(cmd.Context())
	if err != nil {
		return "", err
	}

	if fp == "" {
		return "", fmt.Errorf("catalog %s holds no export", path)
	}

	return fp, nil
}
