package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/normalize"
	sqlq "github.com/healthstats/visitload/internal/sql"
)

// Attribute defaults for dimension rows created from uploads that did
// not describe them.
const (
	autoDiseaseCategory = "General"
	autoDiseaseSeverity = "Medium"
	autoTreatmentType   = "General"
	autoMedicationGroup = "General"
)

// FindOrCreateHospital resolves a hospital by its normalized name,
// creating the row on first sight. Concurrent loaders may race on the
// insert; the conflict-tolerant insert returns no row to the loser,
// which then finds the winner's row.
func (s *Store) FindOrCreateHospital(ctx context.Context, ref model.HospitalRef) (int64, error) {
	norm := normalize.Key(ref.Name)

	var id int64
	err := s.pool.QueryRow(ctx, sqlq.FindHospital, norm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find hospital: %w", err)
	}

	err = s.pool.QueryRow(ctx, sqlq.InsertHospital, ref.Name, norm,
		nilIfEmpty(ref.Type), nilIfEmpty(ref.Address), nilIfEmpty(ref.City),
		nilIfEmpty(ref.State), nilIfEmpty(ref.Pincode)).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert hospital: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlq.FindHospital, norm).Scan(&id); err != nil {
		return 0, fmt.Errorf("hospital lookup after conflict: %w", err)
	}
	return id, nil
}

// FindOrCreateDoctor resolves a doctor by normalized name plus
// specialization. HospitalID and Qualification are attributes recorded
// only when the row is created.
func (s *Store) FindOrCreateDoctor(ctx context.Context, ref model.DoctorRef) (int64, error) {
	nameNorm := normalize.Key(ref.Name)
	specNorm := normalize.Key(ref.Specialization)

	var id int64
	err := s.pool.QueryRow(ctx, sqlq.FindDoctor, nameNorm, specNorm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find doctor: %w", err)
	}

	err = s.pool.QueryRow(ctx, sqlq.InsertDoctor, ref.Name, nameNorm,
		ref.Specialization, specNorm, nilIfEmpty(ref.Qualification), ref.HospitalID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert doctor: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlq.FindDoctor, nameNorm, specNorm).Scan(&id); err != nil {
		return 0, fmt.Errorf("doctor lookup after conflict: %w", err)
	}
	return id, nil
}

// FindOrCreatePatient resolves a patient by phone, then email. Rows
// without either contact are created unconditionally; they have no
// natural key to match on. The insert has no conflict target because
// phone and email hold separate partial unique indexes, so a racing
// duplicate surfaces as a unique violation and triggers a re-lookup.
func (s *Store) FindOrCreatePatient(ctx context.Context, ref model.PatientRef) (int64, error) {
	phone := nilIfEmpty(ref.Phone)
	email := nilIfEmpty(ref.Email)

	var id int64
	if phone != nil || email != nil {
		err := s.pool.QueryRow(ctx, sqlq.FindPatient, phone, email).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("find patient: %w", err)
		}
	}

	err := s.pool.QueryRow(ctx, sqlq.InsertPatient, ref.Name, ref.Age, nilIfEmpty(ref.Gender),
		phone, email, nilIfEmpty(ref.Address), nilIfEmpty(ref.City),
		nilIfEmpty(ref.State), nilIfEmpty(ref.Pincode)).Scan(&id)
	if err == nil {
		return id, nil
	}

	var pgErr *pgconn.PgError
	if (phone != nil || email != nil) && errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if err := s.pool.QueryRow(ctx, sqlq.FindPatient, phone, email).Scan(&id); err != nil {
			return 0, fmt.Errorf("patient lookup after conflict: %w", err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("insert patient: %w", err)
}

// FindOrCreateDisease resolves a disease by normalized name, creating
// it with placeholder attributes when the upload is the first mention.
func (s *Store) FindOrCreateDisease(ctx context.Context, name string) (int64, error) {
	norm := normalize.Key(name)

	var id int64
	err := s.pool.QueryRow(ctx, sqlq.FindDisease, norm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find disease: %w", err)
	}

	desc := fmt.Sprintf("Auto-created during ingestion for %s", name)
	err = s.pool.QueryRow(ctx, sqlq.InsertDisease, name, norm,
		autoDiseaseCategory, autoDiseaseSeverity, desc).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert disease: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlq.FindDisease, norm).Scan(&id); err != nil {
		return 0, fmt.Errorf("disease lookup after conflict: %w", err)
	}
	return id, nil
}

// FindOrCreateTreatment resolves a treatment by normalized name.
func (s *Store) FindOrCreateTreatment(ctx context.Context, name string) (int64, error) {
	norm := normalize.Key(name)

	var id int64
	err := s.pool.QueryRow(ctx, sqlq.FindTreatment, norm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find treatment: %w", err)
	}

	err = s.pool.QueryRow(ctx, sqlq.InsertTreatment, name, norm, autoTreatmentType).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert treatment: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlq.FindTreatment, norm).Scan(&id); err != nil {
		return 0, fmt.Errorf("treatment lookup after conflict: %w", err)
	}
	return id, nil
}

// FindOrCreateMedication resolves a medication by normalized name.
func (s *Store) FindOrCreateMedication(ctx context.Context, name string) (int64, error) {
	norm := normalize.Key(name)

	var id int64
	err := s.pool.QueryRow(ctx, sqlq.FindMedication, norm).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find medication: %w", err)
	}

	err = s.pool.QueryRow(ctx, sqlq.InsertMedication, name, norm, autoMedicationGroup).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert medication: %w", err)
	}

	if err := s.pool.QueryRow(ctx, sqlq.FindMedication, norm).Scan(&id); err != nil {
		return 0, fmt.Errorf("medication lookup after conflict: %w", err)
	}
	return id, nil
}

// EnsureDate upserts one calendar row. The date id is computed by the
// caller, so a conflict simply means the date already exists.
func (s *Store) EnsureDate(ctx context.Context, day model.DateDimension) (int32, error) {
	_, err := s.pool.Exec(ctx, sqlq.InsertDate, day.DateID, day.FullDate, day.Day,
		day.Month, day.Year, day.Quarter, day.MonthName, day.DayName, day.IsWeekend)
	if err != nil {
		return 0, fmt.Errorf("ensure date %d: %w", day.DateID, err)
	}
	return day.DateID, nil
}
