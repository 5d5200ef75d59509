package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Date formats accepted on the visit_date column, tried in order.
// Day-first layouts come before year-first so "15/05/2024" parses as
// 15 May rather than failing.
var visitDateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// ParseVisitDate parses a visit date in any of the accepted formats.
func ParseVisitDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range visitDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
