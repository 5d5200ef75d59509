package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/healthstats/visitload/internal/model"
)

// stubDimensions is an in-memory DimensionStore that counts every call,
// so tests can prove the job-scoped cache keeps repeats off the
// warehouse.
type stubDimensions struct {
	nextID int64

	hospitals map[string]int64
	doctors   map[string]int64
	patients  map[string]int64
	catalogs  map[string]int64
	calls     map[string]int
	failWith  error
}

func newStubDimensions() *stubDimensions {
	return &stubDimensions{
		hospitals: make(map[string]int64),
		doctors:   make(map[string]int64),
		patients:  make(map[string]int64),
		catalogs:  make(map[string]int64),
		calls:     make(map[string]int),
	}
}

func (s *stubDimensions) assign(m map[string]int64, key string) int64 {
	if id, ok := m[key]; ok {
		return id
	}
	s.nextID++
	m[key] = s.nextID
	return s.nextID
}

func (s *stubDimensions) FindOrCreateHospital(_ context.Context, ref model.HospitalRef) (int64, error) {
	s.calls["hospital"]++
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.assign(s.hospitals, ref.Name), nil
}

func (s *stubDimensions) FindOrCreateDoctor(_ context.Context, ref model.DoctorRef) (int64, error) {
	s.calls["doctor"]++
	return s.assign(s.doctors, ref.Name+"/"+ref.Specialization), nil
}

func (s *stubDimensions) FindOrCreatePatient(_ context.Context, ref model.PatientRef) (int64, error) {
	s.calls["patient"]++
	key := ref.Phone
	if key == "" {
		key = ref.Email
	}
	if key == "" {
		s.nextID++
		return s.nextID, nil
	}
	return s.assign(s.patients, key), nil
}

func (s *stubDimensions) FindOrCreateDisease(_ context.Context, name string) (int64, error) {
	s.calls["disease"]++
	return s.assign(s.catalogs, "disease/"+name), nil
}

func (s *stubDimensions) FindOrCreateTreatment(_ context.Context, name string) (int64, error) {
	s.calls["treatment"]++
	return s.assign(s.catalogs, "treatment/"+name), nil
}

func (s *stubDimensions) FindOrCreateMedication(_ context.Context, name string) (int64, error) {
	s.calls["medication"]++
	return s.assign(s.catalogs, "medication/"+name), nil
}

func (s *stubDimensions) EnsureDate(_ context.Context, day model.DateDimension) (int32, error) {
	s.calls["date"]++
	return day.DateID, nil
}

func testVisit() *model.Visit {
	return &model.Visit{
		PatientName:    "Rajesh Sharma",
		Age:            45,
		Gender:         "Male",
		Phone:          "+91-9876543210",
		HospitalName:   "City Care",
		HospitalType:   "Clinic",
		DoctorName:     "Dr. Priya Nair",
		Specialization: "Cardiology",
		VisitDate:      time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		VisitType:      "OPD",
		TotalCostCents: 250000,
		PaymentMethod:  "UPI",
		Status:         "Completed",
	}
}

func TestResolver_CachesWithinJob(t *testing.T) {
	store := newStubDimensions()
	resolver := NewResolver(store)
	ctx := context.Background()

	var first *model.ResolvedVisit
	for i := 0; i < 5; i++ {
		resolved, err := resolver.Resolve(ctx, testVisit())
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if first == nil {
			first = resolved
			continue
		}
		if resolved.HospitalID != first.HospitalID || resolved.DoctorID != first.DoctorID || resolved.PatientID != first.PatientID {
			t.Fatalf("resolution not idempotent: %+v vs %+v", resolved, first)
		}
	}

	for _, kind := range []string{"hospital", "doctor", "patient", "date"} {
		if store.calls[kind] != 1 {
			t.Errorf("%s store calls = %d, want 1 for 5 identical rows", kind, store.calls[kind])
		}
	}
}

func TestResolver_CacheKeyCaseInsensitive(t *testing.T) {
	store := newStubDimensions()
	resolver := NewResolver(store)
	ctx := context.Background()

	a := testVisit()
	b := testVisit()
	b.HospitalName = "  CITY   CARE "

	ra, err := resolver.Resolve(ctx, a)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	rb, err := resolver.Resolve(ctx, b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ra.HospitalID != rb.HospitalID {
		t.Errorf("hospital ids differ across casings: %d vs %d", ra.HospitalID, rb.HospitalID)
	}
	if store.calls["hospital"] != 1 {
		t.Errorf("hospital store calls = %d, want 1", store.calls["hospital"])
	}
}

func TestResolver_OptionalReferences(t *testing.T) {
	store := newStubDimensions()
	resolver := NewResolver(store)
	ctx := context.Background()

	bare, err := resolver.Resolve(ctx, testVisit())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if bare.DiseaseID != nil || bare.TreatmentID != nil || bare.MedicationID != nil {
		t.Errorf("optional refs resolved for empty columns: %+v", bare)
	}

	full := testVisit()
	full.DiseaseName = "Hypertension"
	full.TreatmentName = "ECG"
	full.MedicationName = "Amlodipine 5mg"

	resolved, err := resolver.Resolve(ctx, full)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.DiseaseID == nil || resolved.TreatmentID == nil || resolved.MedicationID == nil {
		t.Errorf("optional refs not resolved: %+v", resolved)
	}
}

func TestResolver_PatientsWithoutContactNeverDeduplicated(t *testing.T) {
	store := newStubDimensions()
	resolver := NewResolver(store)
	ctx := context.Background()

	v := testVisit()
	v.Phone = ""
	v.Email = ""

	ra, err := resolver.Resolve(ctx, v)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	rb, err := resolver.Resolve(ctx, v)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ra.PatientID == rb.PatientID {
		t.Error("contactless patients collapsed onto one row")
	}
	if store.calls["patient"] != 2 {
		t.Errorf("patient store calls = %d, want 2", store.calls["patient"])
	}
}

func TestResolver_StoreErrorPropagates(t *testing.T) {
	store := newStubDimensions()
	store.failWith = context.DeadlineExceeded
	resolver := NewResolver(store)

	if _, err := resolver.Resolve(context.Background(), testVisit()); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
