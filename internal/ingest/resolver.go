package ingest

import (
	"context"
	"fmt"

	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/normalize"
)

// Resolver swaps a visit's dimension references for surrogate keys,
// caching resolutions so repeated references within one job hit the
// warehouse once. The cache is scoped to a single job: a fresh Resolver
// per run, never shared across jobs or process-wide.
type Resolver struct {
	store DimensionStore

	hospitals   map[string]int64
	doctors     map[string]int64
	patients    map[string]int64
	diseases    map[string]int64
	treatments  map[string]int64
	medications map[string]int64
	dates       map[int32]bool
}

// NewResolver creates an empty-cache resolver for one job.
func NewResolver(store DimensionStore) *Resolver {
	return &Resolver{
		store:       store,
		hospitals:   make(map[string]int64),
		doctors:     make(map[string]int64),
		patients:    make(map[string]int64),
		diseases:    make(map[string]int64),
		treatments:  make(map[string]int64),
		medications: make(map[string]int64),
		dates:       make(map[int32]bool),
	}
}

// Resolve maps one validated visit onto dimension keys. Hospital comes
// before doctor because a first-seen doctor is recorded against the
// visit's hospital.
func (r *Resolver) Resolve(ctx context.Context, v *model.Visit) (*model.ResolvedVisit, error) {
	day := model.DateDimensionFor(v.VisitDate)
	if !r.dates[day.DateID] {
		if _, err := r.store.EnsureDate(ctx, day); err != nil {
			return nil, err
		}
		r.dates[day.DateID] = true
	}

	hospitalID, err := r.hospital(ctx, v)
	if err != nil {
		return nil, err
	}
	doctorID, err := r.doctor(ctx, v, hospitalID)
	if err != nil {
		return nil, err
	}
	patientID, err := r.patient(ctx, v)
	if err != nil {
		return nil, err
	}

	resolved := &model.ResolvedVisit{
		PatientID:           patientID,
		DoctorID:            doctorID,
		HospitalID:          hospitalID,
		VisitDateID:         day.DateID,
		VisitType:           v.VisitType,
		Diagnosis:           v.Diagnosis,
		TotalCostCents:      v.TotalCostCents,
		PaymentMethod:       v.PaymentMethod,
		MedicationQuantity:  v.MedicationQuantity,
		VisitDurationMinute: v.VisitDurationMinute,
		Status:              v.Status,
	}

	if v.DiseaseName != "" {
		id, err := r.catalog(ctx, r.diseases, v.DiseaseName, r.store.FindOrCreateDisease, "disease")
		if err != nil {
			return nil, err
		}
		resolved.DiseaseID = &id
	}
	if v.TreatmentName != "" {
		id, err := r.catalog(ctx, r.treatments, v.TreatmentName, r.store.FindOrCreateTreatment, "treatment")
		if err != nil {
			return nil, err
		}
		resolved.TreatmentID = &id
	}
	if v.MedicationName != "" {
		id, err := r.catalog(ctx, r.medications, v.MedicationName, r.store.FindOrCreateMedication, "medication")
		if err != nil {
			return nil, err
		}
		resolved.MedicationID = &id
	}

	return resolved, nil
}

func (r *Resolver) hospital(ctx context.Context, v *model.Visit) (int64, error) {
	key := normalize.Key(v.HospitalName)
	if id, ok := r.hospitals[key]; ok {
		return id, nil
	}
	id, err := r.store.FindOrCreateHospital(ctx, model.HospitalRef{
		Name:    v.HospitalName,
		Type:    v.HospitalType,
		Address: v.HospitalAddress,
		City:    v.HospitalCity,
		State:   v.HospitalState,
		Pincode: v.HospitalPincode,
	})
	if err != nil {
		return 0, fmt.Errorf("resolve hospital %q: %w", v.HospitalName, err)
	}
	r.hospitals[key] = id
	return id, nil
}

func (r *Resolver) doctor(ctx context.Context, v *model.Visit, hospitalID int64) (int64, error) {
	key := normalize.Key(v.DoctorName) + "\x00" + normalize.Key(v.Specialization)
	if id, ok := r.doctors[key]; ok {
		return id, nil
	}
	id, err := r.store.FindOrCreateDoctor(ctx, model.DoctorRef{
		Name:           v.DoctorName,
		Specialization: v.Specialization,
		Qualification:  v.Qualification,
		HospitalID:     hospitalID,
	})
	if err != nil {
		return 0, fmt.Errorf("resolve doctor %q: %w", v.DoctorName, err)
	}
	r.doctors[key] = id
	return id, nil
}

// patient caches by phone, then email. A visit with neither contact
// always creates a fresh patient row; there is nothing to match it on.
func (r *Resolver) patient(ctx context.Context, v *model.Visit) (int64, error) {
	key := v.Phone
	if key == "" {
		key = v.Email
	}
	if key != "" {
		if id, ok := r.patients[key]; ok {
			return id, nil
		}
	}
	id, err := r.store.FindOrCreatePatient(ctx, model.PatientRef{
		Name:    v.PatientName,
		Age:     v.Age,
		Gender:  v.Gender,
		Phone:   v.Phone,
		Email:   v.Email,
		Address: v.Address,
		City:    v.City,
		State:   v.State,
		Pincode: v.Pincode,
	})
	if err != nil {
		return 0, fmt.Errorf("resolve patient %q: %w", v.PatientName, err)
	}
	if key != "" {
		r.patients[key] = id
	}
	return id, nil
}

func (r *Resolver) catalog(ctx context.Context, cache map[string]int64, name string, find func(context.Context, string) (int64, error), what string) (int64, error) {
	key := normalize.Key(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}
	id, err := find(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve %s %q: %w", what, name, err)
	}
	cache[key] = id
	return id, nil
}
