package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/exitcode"
	"github.com/healthstats/visitload/internal/logging"
	"github.com/healthstats/visitload/internal/warehouse"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply warehouse schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Also load the reference disease/treatment/medication catalogs")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.RequireDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.IngestError)
	}

	if migrateSeed {
		n, err := warehouse.New(pool).SeedReference(ctx)
		if err != nil {
			log.Error().Err(err).Msg("seeding failed")
			os.Exit(exitcode.IngestError)
		}
		log.Info().Int("inserted", n).Msg("reference catalogs seeded")
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
