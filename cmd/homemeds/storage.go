package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"homemeds/m/internal/migrations"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema and import the official seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			svc, err := openServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			svc.seed.LoadOnStartup(cmd.Context())
			counts, err := svc.catalog.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized database at %s (%d official, %d user catalog entries)\n",
				cfg.DatabasePath, counts.Official, counts.User)
			return nil
		},
	}
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all data and recreate the database",
		Long:  "reset deletes every catalog entry, lot, member and user, recreates the schema and re-imports the official seed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "This deletes all data in %s. Type 'reset' to continue: ", cfg.DatabasePath)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "reset" {
					return fmt.Errorf("reset aborted")
				}
			}

			svc, err := openServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := migrations.Reset(svc.db); err != nil {
				return err
			}
			svc.seed.LoadOnStartup(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Reset database at %s\n", cfg.DatabasePath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
