package validate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/healthstats/visitload/internal/decode"
)

// baseRow is a fully valid input row; tests override single columns.
func baseRow() map[string]string {
	return map[string]string{
		"patient_name":   "Rajesh Sharma",
		"age":            "45",
		"gender":         "Male",
		"hospital_name":  "Apollo Hospitals Mumbai",
		"doctor_name":    "Dr. Priya Nair",
		"visit_date":     "2024-05-15",
		"visit_type":     "OPD",
		"total_cost":     "2500.50",
		"payment_method": "UPI",
	}
}

func makeRow(t *testing.T, cells map[string]string) decode.RawRow {
	t.Helper()
	headers := make([]string, 0, len(cells))
	values := make([]string, 0, len(cells))
	for k, v := range cells {
		headers = append(headers, k)
		values = append(values, v)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(headers)
	_ = w.Write(values)
	w.Flush()

	table, err := decode.Decode("test.csv", buf.Bytes())
	if err != nil {
		t.Fatalf("decode test row: %v", err)
	}
	return table.Row(0)
}

func TestRow_Valid(t *testing.T) {
	cells := baseRow()
	cells["disease_name"] = "Hypertension"
	cells["medication_name"] = "Amlodipine 5mg"

	visit, err := New(0).Row(makeRow(t, cells))
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if visit.PatientName != "Rajesh Sharma" || visit.Age != 45 {
		t.Errorf("patient = %q/%d", visit.PatientName, visit.Age)
	}
	if !visit.VisitDate.Equal(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("visit date = %v", visit.VisitDate)
	}
	if visit.TotalCostCents != 250050 {
		t.Errorf("cost = %d cents, want 250050", visit.TotalCostCents)
	}
	if visit.Status != "Completed" {
		t.Errorf("status = %q, want default Completed", visit.Status)
	}
	if visit.MedicationQuantity == nil || *visit.MedicationQuantity != 1 {
		t.Errorf("medication quantity not defaulted to 1: %v", visit.MedicationQuantity)
	}
}

func TestRow_EnumsCanonicalized(t *testing.T) {
	cells := baseRow()
	cells["gender"] = "MALE"
	cells["visit_type"] = "opd"
	cells["payment_method"] = "upi"
	cells["status"] = "admitted"

	visit, err := New(0).Row(makeRow(t, cells))
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if visit.Gender != "Male" || visit.VisitType != "OPD" || visit.PaymentMethod != "UPI" || visit.Status != "Admitted" {
		t.Errorf("canonical forms = %q/%q/%q/%q", visit.Gender, visit.VisitType, visit.PaymentMethod, visit.Status)
	}
}

func TestRow_Defaults(t *testing.T) {
	visit, err := New(0).Row(makeRow(t, baseRow()))
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if visit.Specialization != "General Medicine" {
		t.Errorf("specialization = %q", visit.Specialization)
	}
	if visit.Qualification != "MBBS" {
		t.Errorf("qualification = %q", visit.Qualification)
	}
	if visit.HospitalType != "Private" {
		t.Errorf("hospital type = %q", visit.HospitalType)
	}
	if visit.MedicationQuantity != nil {
		t.Error("quantity set without a medication")
	}
}

func TestRow_Failures(t *testing.T) {
	cases := []struct {
		name  string
		col   string
		value string
		field string
	}{
		{"missing patient name", "patient_name", "", "patient_name"},
		{"missing age", "age", "", "age"},
		{"non-numeric age", "age", "forty", "age"},
		{"negative age", "age", "-5", "age"},
		{"zero age", "age", "0", "age"},
		{"absurd age", "age", "200", "age"},
		{"bad gender", "gender", "unknown", "gender"},
		{"missing hospital", "hospital_name", "", "hospital_name"},
		{"missing doctor", "doctor_name", "", "doctor_name"},
		{"missing date", "visit_date", "", "visit_date"},
		{"bad date", "visit_date", "15.05.2024", "visit_date"},
		{"bad visit type", "visit_type", "Virtual", "visit_type"},
		{"missing cost", "total_cost", "", "total_cost"},
		{"negative cost", "total_cost", "-100", "total_cost"},
		{"bad payment", "payment_method", "Barter", "payment_method"},
		{"bad status", "status", "Pending", "status"},
		{"bad quantity", "medication_quantity", "-1", "medication_quantity"},
		{"bad duration", "visit_duration_minutes", "soon", "visit_duration_minutes"},
	}

	check := New(0)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cells := baseRow()
			cells[c.col] = c.value
			if c.col == "medication_quantity" {
				cells["medication_name"] = "Paracetamol 500mg"
			}

			_, err := check.Row(makeRow(t, cells))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("err = %T, want *RowError", err)
			}
			if rowErr.Field != c.field {
				t.Errorf("field = %q, want %q", rowErr.Field, c.field)
			}
			if !strings.Contains(err.Error(), c.field) {
				t.Errorf("message %q does not name field %q", err.Error(), c.field)
			}
		})
	}
}

func TestRow_ConfigurableMaxAge(t *testing.T) {
	cells := baseRow()
	cells["age"] = "105"

	if _, err := New(100).Row(makeRow(t, cells)); err == nil {
		t.Fatal("expected age rejection at max 100")
	}
	if _, err := New(110).Row(makeRow(t, cells)); err != nil {
		t.Fatalf("age 105 under max 110 rejected: %v", err)
	}
}

func TestMissingMandatory(t *testing.T) {
	missing := MissingMandatory([]string{"patient_name", "age", "gender"})
	if len(missing) != 6 {
		t.Fatalf("missing = %v, want 6 columns", missing)
	}
	if missing[0] != "hospital_name" {
		t.Errorf("first missing = %q, want hospital_name (contract order)", missing[0])
	}

	if got := MissingMandatory(TemplateColumns()); len(got) != 0 {
		t.Errorf("template columns report missing: %v", got)
	}
}

func TestTemplateCSV(t *testing.T) {
	table, err := decode.Decode("template.csv", []byte(TemplateCSV()))
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("template has %d data rows, want 1", table.Len())
	}

	// The sample row must pass the validator it documents.
	if _, err := New(0).Row(table.Row(0)); err != nil {
		t.Errorf("template sample row fails validation: %v", err)
	}

	for _, col := range Mandatory() {
		found := false
		for _, h := range table.Headers {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("template missing mandatory column %q", col)
		}
	}
}
