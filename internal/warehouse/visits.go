package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/healthstats/visitload/internal/db"
	"github.com/healthstats/visitload/internal/model"
	sqlq "github.com/healthstats/visitload/internal/sql"
)

// CommitVisit inserts one fact row, finalizes its staging record, and
// bumps the job's success counter, all in one transaction. Either the
// visit lands with its bookkeeping or nothing does.
func (s *Store) CommitVisit(ctx context.Context, jobID, stagingID int64, v *model.ResolvedVisit) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, sqlq.InsertVisit,
			v.PatientID, v.DoctorID, v.HospitalID, v.DiseaseID, v.VisitDateID,
			v.VisitType, nilIfEmpty(v.Diagnosis), v.TreatmentID, v.MedicationID,
			v.MedicationQuantity, v.TotalCostCents, v.PaymentMethod,
			v.VisitDurationMinute, v.Status)
		if err != nil {
			return fmt.Errorf("insert visit: %w", err)
		}

		tag, err := tx.Exec(ctx, sqlq.MarkStagingProcessed, stagingID)
		if err != nil {
			return fmt.Errorf("mark staging %d processed: %w", stagingID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrTerminalStaging
		}

		if _, err := tx.Exec(ctx, sqlq.IncrementJobSuccess, jobID); err != nil {
			return fmt.Errorf("count success for job %d: %w", jobID, err)
		}
		return nil
	})
}

// ExportVisits streams denormalized visits to fn, oldest first. A nil
// since exports the whole fact table; otherwise only visits on or after
// that date are included. Returns the number of rows streamed.
func (s *Store) ExportVisits(ctx context.Context, since *time.Time, fn func(model.VisitExportRow) error) (int64, error) {
	rows, err := s.pool.Query(ctx, sqlq.ExportVisits, since)
	if err != nil {
		return 0, fmt.Errorf("export visits: %w", err)
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		var r model.VisitExportRow
		if err := rows.Scan(&r.VisitID, &r.VisitDate,
			&r.PatientName, &r.PatientAge, &r.Gender, &r.PatientCity,
			&r.HospitalName, &r.HospitalType, &r.HospitalCity, &r.HospitalState,
			&r.DoctorName, &r.Specialization, &r.Qualification,
			&r.DiseaseName, &r.DiseaseCategory, &r.Diagnosis,
			&r.TreatmentName, &r.MedicationName, &r.MedicationQuantity,
			&r.VisitType, &r.TotalCost, &r.PaymentMethod,
			&r.VisitDurationMinutes, &r.Status); err != nil {
			return n, fmt.Errorf("scan visit row: %w", err)
		}
		if err := fn(r); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("export visits: %w", err)
	}
	return n, nil
}
