package model

import "time"

// Visit is one validated input row. String fields are trimmed, enum
// fields hold their canonical spelling, and TotalCostCents carries the
// charge as integer cents so no float ever reaches the fact table.
type Visit struct {
	PatientName string
	Age         int
	Gender      string
	Phone       string
	Email       string
	Address     string
	City        string
	State       string
	Pincode     string

	HospitalName    string
	HospitalType    string
	HospitalAddress string
	HospitalCity    string
	HospitalState   string
	HospitalPincode string

	DoctorName     string
	Specialization string
	Qualification  string

	DiseaseName    string
	Diagnosis      string
	TreatmentName  string
	MedicationName string

	VisitDate           time.Time
	VisitType           string
	TotalCostCents      int64
	PaymentMethod       string
	MedicationQuantity  *int
	VisitDurationMinute *int
	Status              string
}

// ResolvedVisit is a Visit with every dimension reference swapped for
// its surrogate key, ready for the fact insert.
type ResolvedVisit struct {
	PatientID    int64
	DoctorID     int64
	HospitalID   int64
	DiseaseID    *int64
	VisitDateID  int32
	TreatmentID  *int64
	MedicationID *int64

	VisitType           string
	Diagnosis           string
	TotalCostCents      int64
	PaymentMethod       string
	MedicationQuantity  *int
	VisitDurationMinute *int
	Status              string
}

// HospitalRef carries the attributes used when a hospital has to be
// created. Only Name participates in the lookup.
type HospitalRef struct {
	Name    string
	Type    string
	Address string
	City    string
	State   string
	Pincode string
}

// DoctorRef carries the attributes used when a doctor has to be created.
// Name plus Specialization participate in the lookup; HospitalID is an
// attribute recorded at creation time.
type DoctorRef struct {
	Name           string
	Specialization string
	Qualification  string
	HospitalID     int64
}

// PatientRef carries the attributes used when a patient has to be
// created. Phone, then Email, participate in the lookup.
type PatientRef struct {
	Name    string
	Age     int
	Gender  string
	Phone   string
	Email   string
	Address string
	City    string
	State   string
	Pincode string
}
