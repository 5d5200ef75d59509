package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/config"
	"github.com/healthstats/visitload/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "visitload",
	Short: "Patient-visit upload → Postgres warehouse loader",
	Long:  "Validates uploaded patient-visit files (CSV/XLSX), resolves dimension references, and loads fact rows into the star-schema warehouse with a full staging audit trail.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML config file for tunables")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
