package model

import "time"

// DateDimension is one row of the calendar dimension. DateID is the
// YYYYMMDD integer form of the date and doubles as the surrogate key,
// so callers can compute it without a round trip.
type DateDimension struct {
	DateID    int32
	FullDate  time.Time
	Day       int
	Month     int
	Year      int
	Quarter   int
	MonthName string
	DayName   string
	IsWeekend bool
}

// DateDimensionFor derives the full calendar row for a visit date.
func DateDimensionFor(t time.Time) DateDimension {
	y, m, d := t.Date()
	wd := t.Weekday()
	return DateDimension{
		DateID:    int32(y*10000 + int(m)*100 + d),
		FullDate:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Day:       d,
		Month:     int(m),
		Year:      y,
		Quarter:   (int(m)-1)/3 + 1,
		MonthName: m.String(),
		DayName:   wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}
