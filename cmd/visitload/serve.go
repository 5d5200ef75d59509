package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/exitcode"
	"github.com/healthstats/visitload/internal/ingest"
	"github.com/healthstats/visitload/internal/logging"
	"github.com/healthstats/visitload/internal/validate"
	"github.com/healthstats/visitload/internal/warehouse"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload and job-audit HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", "", "HTTP listen address (default :8080)")
	f.IntVar(&cfg.Workers, "workers", 0, "Concurrent ingestion workers (default 1)")
	f.IntVar(&cfg.QueueDepth, "queue-depth", 0, "Pending job queue depth (default 16)")
	f.IntVar(&cfg.MaxAge, "max-age", 0, "Maximum accepted patient age (default 130)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.ConfigPath != "" {
		if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
			log.Error().Err(err).Msg("config file invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateServe(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	store := warehouse.New(pool)
	pipe := ingest.NewPipeline(store, validate.New(cfg.MaxAge), log)
	service := ingest.NewService(pipe, cfg.Workers, cfg.QueueDepth, log)

	mux := http.NewServeMux()
	mux.Handle("POST /api/uploads", ingest.NewUploadHandler(service))
	mux.Handle("GET /api/jobs", ingest.NewJobsHandler(store))
	mux.Handle("GET /api/jobs/{job_id}", ingest.NewJobHandler(store))
	mux.Handle("GET /api/jobs/{job_id}/failures", ingest.NewJobFailuresHandler(store))
	mux.Handle("GET /api/template", ingest.NewTemplateHandler())

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Int("workers", cfg.Workers).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(exitcode.IngestError)
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
		// In-flight jobs run to completion before the process exits.
		service.Stop()
	}
	return nil
}
