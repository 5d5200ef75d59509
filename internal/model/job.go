package model

import (
	"time"

	"github.com/google/uuid"
)

// JobTypePatientVisits is the only job type this pipeline produces.
const JobTypePatientVisits = "patient-visits"

// Job statuses. COMPLETED means every row was processed, including jobs
// where every single row failed; FAILED is reserved for jobs that never
// got past decoding or hit an infrastructure fault mid-run.
const (
	JobPending    = "PENDING"
	JobProcessing = "PROCESSING"
	JobCompleted  = "COMPLETED"
	JobFailed     = "FAILED"
)

// Staging statuses. PROCESSED and FAILED are terminal; a staging record
// never leaves a terminal state.
const (
	StagingPending   = "PENDING"
	StagingValidated = "VALIDATED"
	StagingProcessed = "PROCESSED"
	StagingFailed    = "FAILED"
)

// Job is one ingestion run for one uploaded file.
type Job struct {
	JobID        int64      `json:"job_id"`
	BatchID      uuid.UUID  `json:"batch_id"`
	JobType      string     `json:"job_type"`
	SourceFile   string     `json:"source_file"`
	TotalRecords int        `json:"total_records"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// StagingRecord is the audit copy of one input row. RawPayload holds the
// row exactly as submitted, keyed by the file's own column headers; it is
// written before any fact-table mutation and never updated afterwards.
type StagingRecord struct {
	StagingID    int64             `json:"staging_id"`
	JobID        int64             `json:"job_id"`
	SourceFile   string            `json:"source_file"`
	RowNumber    int               `json:"row_number"`
	RawPayload   map[string]string `json:"raw_payload"`
	Status       string            `json:"status"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	InsertedAt   time.Time         `json:"inserted_at"`
	ProcessedAt  *time.Time        `json:"processed_at,omitempty"`
}

// StagingFailure is the audit view of one failed row.
type StagingFailure struct {
	StagingID    int64             `json:"staging_id"`
	RowNumber    int               `json:"row_number"`
	ErrorMessage string            `json:"error_message"`
	RawPayload   map[string]string `json:"raw_payload"`
	ProcessedAt  *time.Time        `json:"processed_at,omitempty"`
}
