package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCostCents parses a decimal money amount into integer cents.
// Uses math.Round to avoid truncation bias; rejects negative amounts
// and non-finite values so no garbage reaches the fact table.
func ParseCostCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite amount: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount: %q", s)
	}
	return int64(math.Round(v * 100)), nil
}
