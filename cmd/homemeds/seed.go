package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"homemeds/m/domain"
)

func newExportSeedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export-seed",
		Short: "Write every official catalog entry to the seed snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(cmd.Context(), flags.config())
			if err != nil {
				return err
			}
			defer svc.Close()

			// The local operator owns the database file and acts as maintainer.
			n, err := svc.seed.Export(cmd.Context(), domain.Caller{Maintainer: true})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d official entries to %s\n", n, svc.seed.Location())
			return nil
		},
	}
}

func newImportSeedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import-seed",
		Short: "Import the seed snapshot as official catalog data",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(cmd.Context(), flags.config())
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.seed.Import(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d official entries from %s\n", n, svc.seed.Location())
			return nil
		},
	}
}
