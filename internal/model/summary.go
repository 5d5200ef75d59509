package model

import "time"

// JobSummary captures metrics from a single file ingestion run.
type JobSummary struct {
	JobID        int64
	BatchID      string
	SourceFile   string
	TotalRecords int
	SuccessCount int
	FailureCount int
	Status       string
	Duration     time.Duration
}
