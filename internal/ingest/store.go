package ingest

import (
	"context"

	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/warehouse"
)

// DimensionStore is the warehouse surface the resolver needs: one
// find-or-create per dimension. Every call is individually durable;
// a dimension row created for a visit that later fails stays behind
// for the next mention to reuse.
type DimensionStore interface {
	FindOrCreateHospital(ctx context.Context, ref model.HospitalRef) (int64, error)
	FindOrCreateDoctor(ctx context.Context, ref model.DoctorRef) (int64, error)
	FindOrCreatePatient(ctx context.Context, ref model.PatientRef) (int64, error)
	FindOrCreateDisease(ctx context.Context, name string) (int64, error)
	FindOrCreateTreatment(ctx context.Context, name string) (int64, error)
	FindOrCreateMedication(ctx context.Context, name string) (int64, error)
	EnsureDate(ctx context.Context, day model.DateDimension) (int32, error)
}

// Store is the full warehouse surface the pipeline drives.
type Store interface {
	DimensionStore

	OpenJob(ctx context.Context, sourceFile string, totalRecords int) (*model.Job, error)
	StartJob(ctx context.Context, jobID int64) error
	CompleteJob(ctx context.Context, jobID int64) (*model.Job, error)
	FailJob(ctx context.Context, jobID int64, msg string) error

	StageRow(ctx context.Context, jobID int64, sourceFile string, rowNumber int, payload map[string]string) (int64, error)
	MarkRowValidated(ctx context.Context, stagingID int64) error
	CommitVisit(ctx context.Context, jobID, stagingID int64, visit *model.ResolvedVisit) error
	FailRow(ctx context.Context, jobID, stagingID int64, msg string) error
}

// JobQueries is the read-only surface the HTTP job endpoints need.
type JobQueries interface {
	GetJob(ctx context.Context, jobID int64) (*model.Job, error)
	ListJobs(ctx context.Context, limit int) ([]model.Job, error)
	JobFailures(ctx context.Context, jobID int64, limit int) ([]model.StagingFailure, error)
}

var (
	_ Store      = (*warehouse.Store)(nil)
	_ JobQueries = (*warehouse.Store)(nil)
)
