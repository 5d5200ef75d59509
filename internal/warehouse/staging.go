package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/model"
	sqlq "github.com/healthstats/visitload/internal/sql"
)

// StageRow writes the audit copy of one input row and returns its
// staging id. The payload is stored exactly as submitted.
func (s *Store) StageRow(ctx context.Context, jobID int64, sourceFile string, rowNumber int, payload map[string]string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, sqlq.StageRow, jobID, sourceFile, rowNumber, payload).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("stage row %d: %w", rowNumber, err)
	}
	return id, nil
}

// MarkRowValidated moves a PENDING staging record to VALIDATED.
func (s *Store) MarkRowValidated(ctx context.Context, stagingID int64) error {
	tag, err := s.pool.Exec(ctx, sqlq.MarkStagingValidated, stagingID)
	if err != nil {
		return fmt.Errorf("mark staging %d validated: %w", stagingID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTerminalStaging
	}
	return nil
}

// FailRow marks one staging record FAILED with the row's error message
// and bumps the job's failure counter in the same transaction.
func (s *Store) FailRow(ctx context.Context, jobID, stagingID int64, msg string) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sqlq.MarkStagingFailed, stagingID, msg)
		if err != nil {
			return fmt.Errorf("mark staging %d failed: %w", stagingID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrTerminalStaging
		}
		if _, err := tx.Exec(ctx, sqlq.IncrementJobFailure, jobID); err != nil {
			return fmt.Errorf("count failure for job %d: %w", jobID, err)
		}
		return nil
	})
}

// JobFailures lists a job's failed rows in file order.
func (s *Store) JobFailures(ctx context.Context, jobID int64, limit int) ([]model.StagingFailure, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, sqlq.JobFailures, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("job %d failures: %w", jobID, err)
	}
	defer rows.Close()

	var failures []model.StagingFailure
	for rows.Next() {
		var f model.StagingFailure
		if err := rows.Scan(&f.StagingID, &f.RowNumber, &f.ErrorMessage, &f.RawPayload, &f.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan staging failure: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("job %d failures: %w", jobID, err)
	}
	return failures, nil
}
