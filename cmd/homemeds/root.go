package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"homemeds/m/internal/catalog"
	"homemeds/m/internal/config"
	"homemeds/m/internal/database"
	"homemeds/m/internal/migrations"
	"homemeds/m/internal/seed"
)

type rootFlags struct {
	dbPath   string
	seedPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "homemeds",
		Short:         "homemeds keeps track of the household medicine cabinet",
		Long:          "homemeds manages a shared drug catalog, the stock lots on hand, expiry alerts and an optional pharmacist assistant.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Path to SQLite database (overrides DATABASE_PATH)")
	root.PersistentFlags().StringVar(&flags.seedPath, "seed", "", "Path to the seed snapshot file (overrides SEED_PATH, forces the fs driver)")

	root.AddCommand(
		newServeCmd(flags),
		newInitCmd(flags),
		newResetCmd(flags),
		newExportSeedCmd(flags),
		newImportSeedCmd(flags),
	)
	return root
}

func (f *rootFlags) config() config.Config {
	cfg := config.Load()
	if f.dbPath != "" {
		cfg.DatabasePath = f.dbPath
	}
	if f.seedPath != "" {
		cfg.Seed.Driver = "fs"
		cfg.Seed.Path = f.seedPath
	}
	return cfg
}

// services are the pieces every command needs: a migrated database, the
// catalog and the seed syncer.
type services struct {
	db      *sqlx.DB
	catalog *catalog.Store
	seed    *seed.Syncer
}

func openServices(ctx context.Context, cfg config.Config) (*services, error) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, err
	}
	snapshots, err := seed.OpenStore(ctx, cfg.Seed)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open seed store: %w", err)
	}
	cat := catalog.NewStore(db)
	return &services{db: db, catalog: cat, seed: seed.NewSyncer(cat, snapshots)}, nil
}

func (s *services) Close() error { return s.db.Close() }
