package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/exitcode"
	"github.com/healthstats/visitload/internal/ingest"
	"github.com/healthstats/visitload/internal/logging"
	"github.com/healthstats/visitload/internal/validate"
	"github.com/healthstats/visitload/internal/warehouse"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest one patient-visit file into the warehouse",
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to CSV or XLSX file (required)")
	f.IntVar(&cfg.MaxAge, "max-age", 0, "Maximum accepted patient age (default 130)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateIngest(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	f, err := os.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("cannot open input file")
		os.Exit(exitcode.UsageError)
	}
	defer f.Close()

	store := warehouse.New(pool)
	pipe := ingest.NewPipeline(store, validate.New(cfg.MaxAge), log)

	summary, err := pipe.Run(ctx, cfg.FilePath, f)
	if err != nil {
		var decodeErr *ingest.DecodeError
		if errors.As(err, &decodeErr) {
			log.Error().Err(decodeErr.Err).Int64("job_id", decodeErr.JobID).Msg("file rejected")
			os.Exit(exitcode.DecodeError)
		}
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(exitcode.IngestError)
	}

	fmt.Printf("Job %d %s: %d rows, %d succeeded, %d failed (%.1fs)\n",
		summary.JobID, summary.Status, summary.TotalRecords,
		summary.SuccessCount, summary.FailureCount, summary.Duration.Seconds())
	if summary.FailureCount > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
