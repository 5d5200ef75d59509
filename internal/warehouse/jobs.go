package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/healthstats/visitload/internal/model"
	sqlq "github.com/healthstats/visitload/internal/sql"
)

// OpenJob registers a new ingestion job in PENDING state and returns it
// with its assigned id and batch id.
func (s *Store) OpenJob(ctx context.Context, sourceFile string, totalRecords int) (*model.Job, error) {
	job := &model.Job{
		BatchID:      uuid.New(),
		JobType:      model.JobTypePatientVisits,
		SourceFile:   sourceFile,
		TotalRecords: totalRecords,
		Status:       model.JobPending,
	}
	err := s.pool.QueryRow(ctx, sqlq.OpenJob, job.BatchID, job.JobType, sourceFile, totalRecords).
		Scan(&job.JobID, &job.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("open job: %w", err)
	}
	return job, nil
}

// StartJob moves a PENDING job into PROCESSING.
func (s *Store) StartJob(ctx context.Context, jobID int64) error {
	tag, err := s.pool.Exec(ctx, sqlq.StartJob, jobID)
	if err != nil {
		return fmt.Errorf("start job %d: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("start job %d: not in %s state", jobID, model.JobPending)
	}
	return nil
}

// CompleteJob moves a PROCESSING job into COMPLETED and returns the job
// with its final counters. A job completes even when every row failed;
// the counters tell that story.
func (s *Store) CompleteJob(ctx context.Context, jobID int64) (*model.Job, error) {
	job, err := scanJob(s.pool.QueryRow(ctx, sqlq.CompleteJob, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("complete job %d: not in %s state", jobID, model.JobProcessing)
		}
		return nil, fmt.Errorf("complete job %d: %w", jobID, err)
	}
	return job, nil
}

// FailJob marks a job FAILED with the given message. Failing an already
// terminal job is a no-op.
func (s *Store) FailJob(ctx context.Context, jobID int64, msg string) error {
	if _, err := s.pool.Exec(ctx, sqlq.FailJob, jobID, msg); err != nil {
		return fmt.Errorf("fail job %d: %w", jobID, err)
	}
	return nil
}

// GetJob loads one job by id.
func (s *Store) GetJob(ctx context.Context, jobID int64) (*model.Job, error) {
	job, err := scanJob(s.pool.QueryRow(ctx, sqlq.GetJob, jobID))
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return job, nil
}

// ListJobs returns the most recent jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]model.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, sqlq.ListJobs, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var job model.Job
	err := row.Scan(&job.JobID, &job.BatchID, &job.JobType, &job.SourceFile,
		&job.TotalRecords, &job.SuccessCount, &job.FailureCount, &job.Status,
		&job.ErrorMessage, &job.StartedAt, &job.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
