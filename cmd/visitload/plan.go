package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/decode"
	"github.com/healthstats/visitload/internal/exitcode"
	"github.com/healthstats/visitload/internal/logging"
	"github.com/healthstats/visitload/internal/normalize"
	"github.com/healthstats/visitload/internal/validate"
)

const planErrorLimit = 20

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to CSV or XLSX file (required)")
	f.IntVar(&cfg.MaxAge, "max-age", 0, "Maximum accepted patient age (default 130)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ValidationError)
	}

	payload, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read file")
		os.Exit(exitcode.ValidationError)
	}

	table, err := decode.Decode(cfg.FilePath, payload)
	if err != nil {
		log.Error().Err(err).Msg("file would be rejected")
		os.Exit(exitcode.DecodeError)
	}
	if missing := validate.MissingMandatory(table.Headers); len(missing) > 0 {
		log.Error().Strs("missing", missing).Msg("file would be rejected: mandatory columns absent")
		os.Exit(exitcode.DecodeError)
	}

	check := validate.New(cfg.MaxAge)

	type rowError struct {
		row int
		msg string
	}
	var (
		valid  int
		errs   []rowError
		failed int
	)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		if _, err := check.Row(row); err != nil {
			failed++
			if len(errs) < planErrorLimit {
				errs = append(errs, rowError{row: row.Number, msg: err.Error()})
			}
			continue
		}
		valid++
	}

	fmt.Println("=== visitload plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Size:       %d bytes\n", stat.Size())
	fmt.Printf("Total rows: %d\n", table.Len())
	fmt.Printf("Valid:      %d\n", valid)
	fmt.Printf("Invalid:    %d\n", failed)
	if len(errs) > 0 {
		fmt.Println()
		fmt.Printf("First %d row errors:\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  row %4d: %s\n", e.row, e.msg)
		}
	}

	if failed > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
