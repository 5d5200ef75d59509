package sql

import (
	_ "embed"
)

// Job lifecycle

//go:embed queries/open_job.sql
var OpenJob string

//go:embed queries/start_job.sql
var StartJob string

//go:embed queries/complete_job.sql
var CompleteJob string

//go:embed queries/fail_job.sql
var FailJob string

//go:embed queries/increment_job_success.sql
var IncrementJobSuccess string

//go:embed queries/increment_job_failure.sql
var IncrementJobFailure string

//go:embed queries/get_job.sql
var GetJob string

//go:embed queries/list_jobs.sql
var ListJobs string

//go:embed queries/job_failures.sql
var JobFailures string

// Staging audit trail

//go:embed queries/stage_row.sql
var StageRow string

//go:embed queries/mark_staging_validated.sql
var MarkStagingValidated string

//go:embed queries/mark_staging_processed.sql
var MarkStagingProcessed string

//go:embed queries/mark_staging_failed.sql
var MarkStagingFailed string

// Dimension find-or-create

//go:embed queries/find_hospital.sql
var FindHospital string

//go:embed queries/insert_hospital.sql
var InsertHospital string

//go:embed queries/find_doctor.sql
var FindDoctor string

//go:embed queries/insert_doctor.sql
var InsertDoctor string

//go:embed queries/find_patient.sql
var FindPatient string

//go:embed queries/insert_patient.sql
var InsertPatient string

//go:embed queries/find_disease.sql
var FindDisease string

//go:embed queries/insert_disease.sql
var InsertDisease string

//go:embed queries/find_treatment.sql
var FindTreatment string

//go:embed queries/insert_treatment.sql
var InsertTreatment string

//go:embed queries/find_medication.sql
var FindMedication string

//go:embed queries/insert_medication.sql
var InsertMedication string

//go:embed queries/insert_date.sql
var InsertDate string

// Fact table

//go:embed queries/insert_visit.sql
var InsertVisit string

//go:embed queries/export_visits.sql
var ExportVisits string
