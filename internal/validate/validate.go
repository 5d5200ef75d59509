// Package validate checks decoded upload rows against the patient-visit
// column contract and normalizes them into model.Visit values.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/healthstats/visitload/internal/decode"
	"github.com/healthstats/visitload/internal/model"
	"github.com/healthstats/visitload/internal/normalize"
)

// DefaultMaxAge is the upper bound on patient age when the config does
// not override it.
const DefaultMaxAge = 130

// RowError reports a single-row validation failure. The message always
// names the offending column; it becomes the staging record's
// error_message verbatim.
type RowError struct {
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Enumerated columns map case-insensitively onto one canonical spelling,
// so "opd", "OPD" and "Opd" all land on the same fact value.
var (
	genders = map[string]string{
		"male":   "Male",
		"female": "Female",
		"other":  "Other",
	}
	visitTypes = map[string]string{
		"opd":       "OPD",
		"ipd":       "IPD",
		"emergency": "Emergency",
		"follow-up": "Follow-up",
	}
	paymentMethods = map[string]string{
		"cash":      "Cash",
		"insurance": "Insurance",
		"card":      "Card",
		"upi":       "UPI",
	}
	visitStatuses = map[string]string{
		"completed":  "Completed",
		"admitted":   "Admitted",
		"discharged": "Discharged",
		"referred":   "Referred",
	}
)

// Defaults applied when an optional attribute column is absent or empty.
const (
	defaultHospitalType   = "Private"
	defaultSpecialization = "General Medicine"
	defaultQualification  = "MBBS"
	defaultVisitStatus    = "Completed"
)

// Validator normalizes raw rows into visits. It checks columns in
// contract order and stops at the first violation.
type Validator struct {
	maxAge int
}

// New returns a Validator with the given age ceiling; zero or negative
// means DefaultMaxAge.
func New(maxAge int) *Validator {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Validator{maxAge: maxAge}
}

// Row validates one decoded row and returns the normalized visit. On
// failure it returns a *RowError naming the offending column; the row
// must then be marked failed without touching the warehouse.
func (v *Validator) Row(row decode.RawRow) (*model.Visit, error) {
	patientName := row.Get("patient_name")
	if patientName == "" {
		return nil, required("patient_name")
	}

	ageStr := row.Get("age")
	if ageStr == "" {
		return nil, required("age")
	}
	age, err := strconv.Atoi(ageStr)
	if err != nil {
		return nil, &RowError{Field: "age", Reason: fmt.Sprintf("%q is not a whole number", ageStr)}
	}
	if age < 1 || age > v.maxAge {
		return nil, &RowError{Field: "age", Reason: fmt.Sprintf("must be between 1 and %d", v.maxAge)}
	}

	gender, err := enum(row, "gender", genders, true)
	if err != nil {
		return nil, err
	}

	hospitalName := row.Get("hospital_name")
	if hospitalName == "" {
		return nil, required("hospital_name")
	}

	doctorName := row.Get("doctor_name")
	if doctorName == "" {
		return nil, required("doctor_name")
	}

	dateStr := row.Get("visit_date")
	if dateStr == "" {
		return nil, required("visit_date")
	}
	visitDate, err := normalize.ParseVisitDate(dateStr)
	if err != nil {
		return nil, &RowError{Field: "visit_date", Reason: fmt.Sprintf("%q is not a recognized date", dateStr)}
	}

	visitType, err := enum(row, "visit_type", visitTypes, true)
	if err != nil {
		return nil, err
	}

	costStr := row.Get("total_cost")
	if costStr == "" {
		return nil, required("total_cost")
	}
	costCents, err := normalize.ParseCostCents(costStr)
	if err != nil {
		return nil, &RowError{Field: "total_cost", Reason: err.Error()}
	}

	paymentMethod, err := enum(row, "payment_method", paymentMethods, true)
	if err != nil {
		return nil, err
	}

	status, err := enum(row, "status", visitStatuses, false)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = defaultVisitStatus
	}

	medicationName := row.Get("medication_name")
	medicationQty, err := optionalCount(row, "medication_quantity")
	if err != nil {
		return nil, err
	}
	if medicationName == "" {
		// No medication dimension to attach the quantity to.
		medicationQty = nil
	} else if medicationQty == nil {
		one := 1
		medicationQty = &one
	}

	duration, err := optionalCount(row, "visit_duration_minutes")
	if err != nil {
		return nil, err
	}

	return &model.Visit{
		PatientName: patientName,
		Age:         age,
		Gender:      gender,
		Phone:       row.Get("phone"),
		Email:       row.Get("email"),
		Address:     row.Get("address"),
		City:        row.Get("city"),
		State:       row.Get("state"),
		Pincode:     row.Get("pincode"),

		HospitalName:    hospitalName,
		HospitalType:    fallback(row.Get("hospital_type"), defaultHospitalType),
		HospitalAddress: fallback(row.Get("hospital_address"), row.Get("address")),
		HospitalCity:    fallback(row.Get("hospital_city"), row.Get("city")),
		HospitalState:   fallback(row.Get("hospital_state"), row.Get("state")),
		HospitalPincode: fallback(row.Get("hospital_pincode"), row.Get("pincode")),

		DoctorName:     doctorName,
		Specialization: fallback(row.Get("specialization"), defaultSpecialization),
		Qualification:  fallback(row.Get("qualification"), defaultQualification),

		DiseaseName:    row.Get("disease_name"),
		Diagnosis:      row.Get("diagnosis"),
		TreatmentName:  row.Get("treatment_name"),
		MedicationName: medicationName,

		VisitDate:           visitDate,
		VisitType:           visitType,
		TotalCostCents:      costCents,
		PaymentMethod:       paymentMethod,
		MedicationQuantity:  medicationQty,
		VisitDurationMinute: duration,
		Status:              status,
	}, nil
}

func required(field string) *RowError {
	return &RowError{Field: field, Reason: "is required"}
}

// enum canonicalizes an enumerated column. Absent non-mandatory columns
// yield "" so the caller can apply its default.
func enum(row decode.RawRow, field string, allowed map[string]string, mandatory bool) (string, error) {
	raw := row.Get(field)
	if raw == "" {
		if mandatory {
			return "", required(field)
		}
		return "", nil
	}
	canon, ok := allowed[strings.ToLower(raw)]
	if !ok {
		return "", &RowError{Field: field, Reason: fmt.Sprintf("%q is not one of %s", raw, allowedValues(allowed))}
	}
	return canon, nil
}

func allowedValues(allowed map[string]string) string {
	vals := make([]string, 0, len(allowed))
	for _, v := range allowed {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}

// optionalCount parses an optional positive integer column.
func optionalCount(row decode.RawRow, field string) (*int, error) {
	raw := row.Get(field)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &RowError{Field: field, Reason: fmt.Sprintf("%q is not a whole number", raw)}
	}
	if n < 1 {
		return nil, &RowError{Field: field, Reason: "must be positive"}
	}
	return &n, nil
}

func fallback(primary, alternate string) string {
	if primary != "" {
		return primary
	}
	return alternate
}
