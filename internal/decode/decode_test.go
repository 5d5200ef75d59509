package decode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecode_CSV(t *testing.T) {
	payload := []byte("patient_name,age,gender\nRajesh Sharma,45,Male\nPriya Patel,30,Female\n")

	table, err := Decode("visits.csv", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	if got := table.Headers; len(got) != 3 || got[0] != "patient_name" {
		t.Errorf("headers = %v", got)
	}

	row := table.Row(0)
	if row.Number != 1 {
		t.Errorf("row number = %d, want 1", row.Number)
	}
	if got := row.Get("age"); got != "45" {
		t.Errorf("age = %q, want 45", got)
	}
	if got := row.Get("nonexistent"); got != "" {
		t.Errorf("missing column = %q, want empty", got)
	}
}

func TestDecode_CSVWithBOM(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte("patient_name,age\nAmit Kumar,52\n")...)

	table, err := Decode("visits.csv", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if table.Headers[0] != "patient_name" {
		t.Errorf("BOM not stripped: first header = %q", table.Headers[0])
	}
}

func TestDecode_SkipsEmptyRowsAndPads(t *testing.T) {
	payload := []byte("patient_name,age,gender\n\n,,\nAnjali Singh,28\n")

	table, err := Decode("visits.csv", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (empty rows dropped)", table.Len())
	}
	row := table.Row(0)
	if got := row.Get("gender"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
	payloadMap := row.Payload()
	if len(payloadMap) != 3 {
		t.Errorf("payload has %d keys, want 3", len(payloadMap))
	}
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"patient_name", "age"},
		{"Rahul Verma", "61"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	table, err := Decode("visits.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", table.Len())
	}
	if got := table.Row(0).Get("patient_name"); got != "Rahul Verma" {
		t.Errorf("patient_name = %q", got)
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	_, err := Decode("visits.txt", []byte("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecode_EmptyPayload(t *testing.T) {
	if _, err := Decode("visits.csv", nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDecode_NoHeader(t *testing.T) {
	if _, err := Decode("visits.csv", []byte("\n,,\n")); err == nil {
		t.Fatal("expected error when no header row survives")
	}
}

func TestDecode_CorruptXLSX(t *testing.T) {
	if _, err := Decode("visits.xlsx", []byte("not a zip archive")); err == nil {
		t.Fatal("expected error for corrupt xlsx")
	}
}

func TestRawRow_DuplicateHeaderFirstWins(t *testing.T) {
	payload := []byte("age,age\n45,99\n")
	table, err := Decode("visits.csv", payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := table.Row(0).Get("age"); got != "45" {
		t.Errorf("age = %q, want 45 (first column)", got)
	}
}
