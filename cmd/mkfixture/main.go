// mkfixture generates sample patient-visit upload files for manual
// testing, as CSV or XLSX depending on the output extension.
// Usage: go run ./cmd/mkfixture --out testdata/visits.csv --rows 50
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/healthstats/visitload/internal/validate"
)

var (
	firstNames = []string{"Rajesh", "Priya", "Amit", "Anjali", "Rahul", "Kavita", "Vikram", "Sneha", "Arjun", "Meera", "Karan", "Divya", "Suresh", "Sunita", "Deepak", "Manisha"}
	surnames   = []string{"Sharma", "Patel", "Kumar", "Singh", "Reddy", "Nair", "Iyer", "Gupta", "Mehta", "Shah", "Desai", "Joshi", "Rao", "Verma", "Yadav", "Das"}

	cities = []struct{ city, state, pincode string }{
		{"Mumbai", "Maharashtra", "400053"},
		{"Delhi", "Delhi", "110001"},
		{"Bengaluru", "Karnataka", "560001"},
		{"Chennai", "Tamil Nadu", "600001"},
		{"Hyderabad", "Telangana", "500001"},
		{"Pune", "Maharashtra", "411001"},
		{"Kolkata", "West Bengal", "700001"},
	}

	hospitals = []struct{ name, kind string }{
		{"Apollo Hospitals", "Private"},
		{"Fortis Healthcare", "Private"},
		{"AIIMS", "Government"},
		{"Manipal Hospital", "Private"},
		{"City Care Clinic", "Clinic"},
	}

	specializations = []string{"Cardiology", "Neurology", "Orthopedics", "Pediatrics", "General Medicine", "Dermatology", "Gastroenterology"}
	qualifications  = []string{"MBBS", "MD", "MS", "MD DM"}
	diseases        = []string{"Diabetes", "Hypertension", "Dengue", "Pneumonia", "Asthma", "Gastritis", "Migraine", "Anemia"}
	treatments      = []string{"Blood Test", "X-Ray", "ECG", "MRI Scan", "Physiotherapy", "Ultrasound"}
	medications     = []string{"Paracetamol 500mg", "Amoxicillin 500mg", "Metformin 500mg", "Amlodipine 5mg", "Ibuprofen 400mg"}
	genders         = []string{"Male", "Female", "Other"}
	visitTypes      = []string{"OPD", "IPD", "Emergency", "Follow-up"}
	payments        = []string{"Cash", "Insurance", "Card", "UPI"}

	// All four accepted encodings of the visit date, to exercise the
	// parser the way mixed exports from hospital systems do.
	dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}
)

func main() {
	out := flag.String("out", "testdata/visits.csv", "output file (.csv or .xlsx)")
	rows := flag.Int("rows", 50, "number of visit rows")
	seed := flag.Int64("seed", 1, "random seed")
	invalidEvery := flag.Int("invalid-every", 0, "corrupt every Nth row (0 = all rows valid)")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	columns := validate.TemplateColumns()

	records := [][]string{columns}
	for i := 1; i <= *rows; i++ {
		row := makeRow(rng, i)
		if *invalidEvery > 0 && i%*invalidEvery == 0 {
			corrupt(rng, row)
		}
		record := make([]string, len(columns))
		for j, col := range columns {
			record[j] = row[col]
		}
		records = append(records, record)
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(*out)); ext {
	case ".csv":
		err = writeCSV(*out, records)
	case ".xlsx":
		err = writeXLSX(*out, records)
	default:
		err = fmt.Errorf("unsupported output extension %q", ext)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkfixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows to %s\n", *rows, *out)
}

func makeRow(rng *rand.Rand, n int) map[string]string {
	first := pick(rng, firstNames)
	last := pick(rng, surnames)
	loc := cities[rng.Intn(len(cities))]
	hosp := hospitals[rng.Intn(len(hospitals))]
	hospLoc := cities[rng.Intn(len(cities))]
	visit := time.Date(2024, time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)

	row := map[string]string{
		"patient_name":           first + " " + last,
		"age":                    strconv.Itoa(1 + rng.Intn(90)),
		"gender":                 pick(rng, genders),
		"phone":                  fmt.Sprintf("+91-98%08d", rng.Intn(100000000)),
		"email":                  fmt.Sprintf("%s.%s%d@example.in", strings.ToLower(first), strings.ToLower(last), n),
		"address":                fmt.Sprintf("%d MG Road", 1+rng.Intn(400)),
		"city":                   loc.city,
		"state":                  loc.state,
		"pincode":                loc.pincode,
		"hospital_name":          fmt.Sprintf("%s %s", hosp.name, hospLoc.city),
		"hospital_type":          hosp.kind,
		"hospital_address":       fmt.Sprintf("%d Hospital Road", 1+rng.Intn(100)),
		"hospital_city":          hospLoc.city,
		"hospital_state":         hospLoc.state,
		"hospital_pincode":       hospLoc.pincode,
		"doctor_name":            fmt.Sprintf("Dr. %s %s", pick(rng, firstNames), pick(rng, surnames)),
		"specialization":         pick(rng, specializations),
		"qualification":          pick(rng, qualifications),
		"visit_date":             visit.Format(pick(rng, dateLayouts)),
		"visit_type":             pick(rng, visitTypes),
		"total_cost":             fmt.Sprintf("%d.%02d", 100+rng.Intn(49900), rng.Intn(100)),
		"payment_method":         pick(rng, payments),
		"visit_duration_minutes": strconv.Itoa(10 + rng.Intn(110)),
		"status":                 "Completed",
	}

	// Clinical columns are optional; leave them off some rows the way
	// real uploads do.
	if rng.Intn(4) > 0 {
		row["disease_name"] = pick(rng, diseases)
		row["diagnosis"] = "Consultation for " + row["disease_name"]
	}
	if rng.Intn(3) > 0 {
		row["treatment_name"] = pick(rng, treatments)
	}
	if rng.Intn(3) > 0 {
		row["medication_name"] = pick(rng, medications)
		row["medication_quantity"] = strconv.Itoa(1 + rng.Intn(10))
	}
	return row
}

// corrupt makes one row fail validation in a recognizable way.
func corrupt(rng *rand.Rand, row map[string]string) {
	switch rng.Intn(4) {
	case 0:
		row["age"] = "-5"
	case 1:
		row["visit_date"] = "not-a-date"
	case 2:
		row["gender"] = "unknown"
	default:
		row["total_cost"] = ""
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
