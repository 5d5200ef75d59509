package model

// VisitExportRow mirrors the Parquet schema for one denormalized visit.
// It is the analytics feed: every dimension is flattened back to its
// display attributes so downstream consumers never need the warehouse.
type VisitExportRow struct {
	VisitID   int64  `parquet:"visit_id"`
	VisitDate string `parquet:"visit_date"`

	// Patient
	PatientName string  `parquet:"patient_name"`
	PatientAge  *int32  `parquet:"patient_age,optional"`
	Gender      *string `parquet:"gender,optional"`
	PatientCity *string `parquet:"patient_city,optional"`

	// Hospital
	HospitalName  string  `parquet:"hospital_name"`
	HospitalType  *string `parquet:"hospital_type,optional"`
	HospitalCity  *string `parquet:"hospital_city,optional"`
	HospitalState *string `parquet:"hospital_state,optional"`

	// Doctor
	DoctorName     string  `parquet:"doctor_name"`
	Specialization string  `parquet:"specialization"`
	Qualification  *string `parquet:"qualification,optional"`

	// Clinical
	DiseaseName        *string `parquet:"disease_name,optional"`
	DiseaseCategory    *string `parquet:"disease_category,optional"`
	Diagnosis          *string `parquet:"diagnosis,optional"`
	TreatmentName      *string `parquet:"treatment_name,optional"`
	MedicationName     *string `parquet:"medication_name,optional"`
	MedicationQuantity *int32  `parquet:"medication_quantity,optional"`

	// Visit
	VisitType            string  `parquet:"visit_type"`
	TotalCost            float64 `parquet:"total_cost"`
	PaymentMethod        string  `parquet:"payment_method"`
	VisitDurationMinutes *int32  `parquet:"visit_duration_minutes,optional"`
	Status               string  `parquet:"status"`
}
