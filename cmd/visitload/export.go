package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/exitcode"
	"github.com/healthstats/visitload/internal/export"
	"github.com/healthstats/visitload/internal/logging"
	"github.com/healthstats/visitload/internal/warehouse"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export committed visits as a denormalized Parquet file",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&cfg.OutPath, "out", "", "Output Parquet path (required)")
	f.StringVar(&cfg.Since, "since", "", "Only visits on or after this date (YYYY-MM-DD)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.RequireDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var since *time.Time
	if cfg.Since != "" {
		t, err := time.Parse("2006-01-02", cfg.Since)
		if err != nil {
			log.Error().Err(err).Msg("--since must be YYYY-MM-DD")
			os.Exit(exitcode.UsageError)
		}
		since = &t
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	n, err := export.WriteVisits(ctx, warehouse.New(pool), cfg.OutPath, since, log)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(exitcode.IngestError)
	}

	fmt.Printf("Exported %d visits to %s\n", n, cfg.OutPath)
	return nil
}
