// Package ingest drives uploaded patient-visit files through the
// warehouse: decode, per-row staging, validation, dimension resolution,
// and the transactional fact commit.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/healthstats/visitload/internal/decode"
	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/validate"
)

// PipelineError wraps an infrastructure fault with the phase where it
// occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// DecodeError reports an upload rejected before any row was staged.
// JobID names the FAILED job row left behind for the attempt.
type DecodeError struct {
	JobID int64
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Pipeline ingests uploads into the warehouse.
type Pipeline struct {
	store Store
	check *validate.Validator
	log   zerolog.Logger
}

// NewPipeline wires a pipeline to its warehouse and validator.
func NewPipeline(store Store, check *validate.Validator, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: store, check: check, log: log}
}

// Prep is a decoded upload with its registered job, ready to process.
type Prep struct {
	Job   *model.Job
	table *decode.Table
}

// Prepare decodes the payload, enforces the column contract, and
// registers the job. A rejected file still leaves a FAILED job row
// behind so the attempt is visible; no staging rows are written for it.
func (p *Pipeline) Prepare(ctx context.Context, fileName string, payload []byte) (*Prep, error) {
	table, err := decode.Decode(fileName, payload)
	if err == nil {
		if missing := validate.MissingMandatory(table.Headers); len(missing) > 0 {
			err = fmt.Errorf("missing mandatory columns: %s", strings.Join(missing, ", "))
		}
	}
	if err != nil {
		job, openErr := p.store.OpenJob(ctx, fileName, 0)
		if openErr != nil {
			return nil, &PipelineError{Phase: "open", Err: openErr}
		}
		if failErr := p.store.FailJob(ctx, job.JobID, err.Error()); failErr != nil {
			return nil, &PipelineError{Phase: "open", Err: failErr}
		}
		p.log.Warn().Int64("job_id", job.JobID).Str("file", fileName).Err(err).Msg("upload rejected")
		return nil, &DecodeError{JobID: job.JobID, Err: err}
	}

	job, err := p.store.OpenJob(ctx, fileName, table.Len())
	if err != nil {
		return nil, &PipelineError{Phase: "open", Err: err}
	}

	p.log.Info().
		Int64("job_id", job.JobID).
		Str("batch_id", job.BatchID.String()).
		Str("file", fileName).
		Int("rows", table.Len()).
		Msg("job opened")
	return &Prep{Job: job, table: table}, nil
}

// Process walks the prepared rows in file order: stage, validate,
// resolve, commit. Row failures are recorded on their staging records
// and counted without stopping the run; only infrastructure faults
// abort, marking the job FAILED. Dimension rows created before a row
// failure stay put for later rows to reuse.
func (p *Pipeline) Process(ctx context.Context, prep *Prep) (*model.JobSummary, error) {
	start := time.Now()
	job := prep.Job
	log := p.log.With().Int64("job_id", job.JobID).Logger()

	if err := p.store.StartJob(ctx, job.JobID); err != nil {
		_ = p.store.FailJob(ctx, job.JobID, err.Error())
		return nil, &PipelineError{Phase: "start", Err: err}
	}

	resolver := NewResolver(p.store)

	for i := 0; i < prep.table.Len(); i++ {
		row := prep.table.Row(i)

		stagingID, err := p.store.StageRow(ctx, job.JobID, job.SourceFile, row.Number, row.Payload())
		if err != nil {
			_ = p.store.FailJob(ctx, job.JobID, err.Error())
			return nil, &PipelineError{Phase: "stage", Err: err}
		}

		if err := p.processRow(ctx, job.JobID, stagingID, row, resolver); err != nil {
			if !rowScoped(err) {
				_ = p.store.FailJob(ctx, job.JobID, err.Error())
				return nil, &PipelineError{Phase: "process", Err: err}
			}
			log.Debug().Int("row", row.Number).Err(err).Msg("row failed")
			if failErr := p.store.FailRow(ctx, job.JobID, stagingID, err.Error()); failErr != nil {
				_ = p.store.FailJob(ctx, job.JobID, failErr.Error())
				return nil, &PipelineError{Phase: "process", Err: failErr}
			}
		}
	}

	done, err := p.store.CompleteJob(ctx, job.JobID)
	if err != nil {
		_ = p.store.FailJob(ctx, job.JobID, err.Error())
		return nil, &PipelineError{Phase: "complete", Err: err}
	}

	summary := &model.JobSummary{
		JobID:        done.JobID,
		BatchID:      done.BatchID.String(),
		SourceFile:   done.SourceFile,
		TotalRecords: done.TotalRecords,
		SuccessCount: done.SuccessCount,
		FailureCount: done.FailureCount,
		Status:       done.Status,
		Duration:     time.Since(start),
	}

	log.Info().
		Int("total", summary.TotalRecords).
		Int("succeeded", summary.SuccessCount).
		Int("failed", summary.FailureCount).
		Str("duration", summary.Duration.String()).
		Msg("ingestion complete")

	return summary, nil
}

// Run ingests one file synchronously: Prepare then Process.
func (p *Pipeline) Run(ctx context.Context, fileName string, r io.Reader) (*model.JobSummary, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	prep, err := p.Prepare(ctx, fileName, payload)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, prep)
}

func (p *Pipeline) processRow(ctx context.Context, jobID, stagingID int64, row decode.RawRow, resolver *Resolver) error {
	visit, err := p.check.Row(row)
	if err != nil {
		return err
	}
	if err := p.store.MarkRowValidated(ctx, stagingID); err != nil {
		return err
	}
	resolved, err := resolver.Resolve(ctx, visit)
	if err != nil {
		return err
	}
	return p.store.CommitVisit(ctx, jobID, stagingID, resolved)
}

// rowScoped reports whether an error condemns only the current row.
// Validation failures and database errors carrying a SQLSTATE (bad
// values, constraint violations) fail the row; anything else, such as a
// lost connection, is an infrastructure fault that aborts the job.
func rowScoped(err error) bool {
	var rowErr *validate.RowError
	if errors.As(err, &rowErr) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
