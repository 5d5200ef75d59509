package normalize

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Apollo Hospitals", "apollo hospitals"},
		{"  Apollo   Hospitals  ", "apollo hospitals"},
		{"CITY CARE", "city care"},
		{"city\tcare", "city care"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Key(c.in); got != c.want {
			t.Errorf("Key(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseVisitDate(t *testing.T) {
	want := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-05-15", "15-05-2024", "15/05/2024", "2024/05/15", " 2024-05-15 "} {
		got, err := ParseVisitDate(in)
		if err != nil {
			t.Errorf("ParseVisitDate(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseVisitDate(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "15.05.2024", "May 15 2024", "2024-13-40"} {
		if _, err := ParseVisitDate(in); err == nil {
			t.Errorf("ParseVisitDate(%q): expected error", in)
		}
	}
}

func TestParseVisitDate_DayFirstWins(t *testing.T) {
	// 03/04/2024 must read as 3 April, not 4 March.
	got, err := ParseVisitDate("03/04/2024")
	if err != nil {
		t.Fatalf("ParseVisitDate: %v", err)
	}
	if got.Day() != 3 || got.Month() != time.April {
		t.Errorf("got %v, want 3 April 2024", got)
	}
}

func TestParseCostCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2500", 250000},
		{"2500.50", 250050},
		{"0", 0},
		{"0.005", 1}, // rounds, not truncates
		{" 199.99 ", 19999},
	}
	for _, c := range cases {
		got, err := ParseCostCents(c.in)
		if err != nil {
			t.Errorf("ParseCostCents(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseCostCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "-1", "abc", "NaN", "Inf"} {
		if _, err := ParseCostCents(in); err == nil {
			t.Errorf("ParseCostCents(%q): expected error", in)
		}
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.csv")
	if err := os.WriteFile(path, []byte("hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	// sha256 of "hello\n"
	want := "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"
	if got != want {
		t.Errorf("FileHash = %s, want %s", got, want)
	}

	if _, err := FileHash(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
