package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/healthstats/visitload/internal/normalize"
	sqlq "github.com/healthstats/visitload/internal/sql"
)

// Canonical reference catalogs for the Indian healthcare deployments
// this warehouse serves. Uploads that name anything else still work;
// those rows are auto-created with placeholder attributes.
var seedDiseases = []struct {
	name     string
	category string
	severity string
}{
	{"Diabetes", "Metabolic", "High"},
	{"Hypertension", "Cardiovascular", "High"},
	{"Malaria", "Infectious", "Medium"},
	{"Dengue", "Infectious", "High"},
	{"Tuberculosis", "Infectious", "High"},
	{"Pneumonia", "Respiratory", "High"},
	{"Asthma", "Respiratory", "Medium"},
	{"Coronary Heart Disease", "Cardiovascular", "Critical"},
	{"Arthritis", "Musculoskeletal", "Low"},
	{"Gastritis", "Digestive", "Low"},
	{"Typhoid", "Infectious", "Medium"},
	{"Cholera", "Infectious", "High"},
	{"Hepatitis B", "Hepatic", "High"},
	{"Kidney Stones", "Urological", "Medium"},
	{"Migraine", "Neurological", "Low"},
	{"Chronic Obstructive Pulmonary Disease", "Respiratory", "High"},
	{"Chronic Kidney Disease", "Nephrology", "High"},
	{"Hypothyroidism", "Endocrine", "Medium"},
	{"Anemia", "Hematological", "Medium"},
	{"Diarrhea", "Digestive", "Medium"},
}

var seedTreatments = []struct {
	name string
	kind string
}{
	{"Bypass Surgery", "Surgical"},
	{"Angioplasty", "Cardiology"},
	{"Chemotherapy", "Oncology"},
	{"Physiotherapy", "Rehabilitation"},
	{"Dialysis", "Nephrology"},
	{"Endoscopy", "Diagnostic"},
	{"Colonoscopy", "Diagnostic"},
	{"MRI Scan", "Diagnostic"},
	{"CT Scan", "Diagnostic"},
	{"X-Ray", "Diagnostic"},
	{"Ultrasound", "Diagnostic"},
	{"Blood Test", "Diagnostic"},
	{"ECG", "Diagnostic"},
	{"Echocardiogram", "Diagnostic"},
	{"Cataract Surgery", "Surgical"},
	{"Knee Replacement", "Surgical"},
	{"Hip Replacement", "Surgical"},
	{"Appendectomy", "Surgical"},
	{"Gallbladder Removal", "Surgical"},
	{"C-Section", "Surgical"},
}

var seedMedications = []struct {
	name     string
	category string
}{
	{"Paracetamol 500mg", "Generic"},
	{"Amoxicillin 500mg", "Antibiotic"},
	{"Metformin 500mg", "Diabetes"},
	{"Amlodipine 5mg", "Hypertension"},
	{"Aspirin 75mg", "Cardiovascular"},
	{"Ibuprofen 400mg", "Pain Relief"},
	{"Omeprazole 20mg", "Gastric"},
	{"Atorvastatin 10mg", "Cholesterol"},
	{"Insulin Glargine", "Diabetes"},
	{"Salbutamol Inhaler", "Asthma"},
	{"Azithromycin 500mg", "Antibiotic"},
	{"Ciprofloxacin 500mg", "Antibiotic"},
	{"Pantoprazole 40mg", "Gastric"},
	{"Losartan 50mg", "Hypertension"},
	{"Glibenclamide 5mg", "Diabetes"},
}

// SeedReference loads the canonical disease, treatment, and medication
// catalogs into their dimension tables. Inserts are conflict-tolerant,
// so reseeding an existing warehouse inserts nothing and changes
// nothing. Returns the number of rows actually inserted.
func (s *Store) SeedReference(ctx context.Context) (int, error) {
	inserted := 0

	for _, d := range seedDiseases {
		desc := fmt.Sprintf("Reference catalog entry for %s", d.name)
		var id int64
		err := s.pool.QueryRow(ctx, sqlq.InsertDisease, d.name, normalize.Key(d.name),
			d.category, d.severity, desc).Scan(&id)
		if err == nil {
			inserted++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return inserted, fmt.Errorf("seed disease %q: %w", d.name, err)
		}
	}

	for _, t := range seedTreatments {
		var id int64
		err := s.pool.QueryRow(ctx, sqlq.InsertTreatment, t.name, normalize.Key(t.name), t.kind).Scan(&id)
		if err == nil {
			inserted++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return inserted, fmt.Errorf("seed treatment %q: %w", t.name, err)
		}
	}

	for _, m := range seedMedications {
		var id int64
		err := s.pool.QueryRow(ctx, sqlq.InsertMedication, m.name, normalize.Key(m.name), m.category).Scan(&id)
		if err == nil {
			inserted++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return inserted, fmt.Errorf("seed medication %q: %w", m.name, err)
		}
	}

	return inserted, nil
}
