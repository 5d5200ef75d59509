package validate

import "strings"

// Columns every upload must carry. Matching is exact after trimming the
// header cell; a file missing any of these is rejected before a single
// row is staged.
var mandatoryColumns = []string{
	"patient_name",
	"age",
	"gender",
	"hospital_name",
	"doctor_name",
	"visit_date",
	"visit_type",
	"total_cost",
	"payment_method",
}

// Columns the pipeline understands but does not require. Unknown extra
// columns are carried into the staging payload and otherwise ignored.
var optionalColumns = []string{
	"phone",
	"email",
	"address",
	"city",
	"state",
	"pincode",
	"hospital_type",
	"hospital_address",
	"hospital_city",
	"hospital_state",
	"hospital_pincode",
	"specialization",
	"qualification",
	"disease_name",
	"diagnosis",
	"treatment_name",
	"medication_name",
	"medication_quantity",
	"visit_duration_minutes",
	"status",
}

// templateColumns is the canonical column order of the downloadable
// template, grouped patient / hospital / doctor / clinical / visit.
var templateColumns = []string{
	"patient_name", "age", "gender", "phone", "email",
	"address", "city", "state", "pincode",
	"hospital_name", "hospital_type", "hospital_address",
	"hospital_city", "hospital_state", "hospital_pincode",
	"doctor_name", "specialization", "qualification",
	"disease_name", "diagnosis", "treatment_name",
	"medication_name", "medication_quantity",
	"visit_date", "visit_type", "total_cost", "payment_method",
	"visit_duration_minutes", "status",
}

// templateSample is one filled-in example row, aligned with
// templateColumns.
var templateSample = []string{
	"Rajesh Sharma", "45", "Male", "+91-9876543210", "rajesh.sharma@email.com",
	"123 MG Road Andheri", "Mumbai", "Maharashtra", "400053",
	"Apollo Hospitals Mumbai", "Private", "Film City Road Goregaon",
	"Mumbai", "Maharashtra", "400063",
	"Dr. Priya Nair", "Cardiology", "MD DM",
	"Hypertension", "Routine heart checkup", "ECG",
	"Amlodipine 5mg", "1",
	"2024-05-15", "OPD", "2500", "UPI",
	"30", "Completed",
}

// Mandatory returns the columns every upload must provide.
func Mandatory() []string {
	out := make([]string, len(mandatoryColumns))
	copy(out, mandatoryColumns)
	return out
}

// Optional returns the recognized non-mandatory columns.
func Optional() []string {
	out := make([]string, len(optionalColumns))
	copy(out, optionalColumns)
	return out
}

// MissingMandatory reports which mandatory columns are absent from the
// decoded header row, in contract order.
func MissingMandatory(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range mandatoryColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// TemplateColumns returns the canonical template column order.
func TemplateColumns() []string {
	out := make([]string, len(templateColumns))
	copy(out, templateColumns)
	return out
}

// TemplateCSV renders the downloadable upload template: the canonical
// header row plus one example row. No cell contains a comma or quote, so
// a plain join is a valid CSV encoding.
func TemplateCSV() string {
	return strings.Join(templateColumns, ",") + "\n" + strings.Join(templateSample, ",") + "\n"
}
