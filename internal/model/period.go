package model

import (
	"fmt"
	"time"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodMonth PeriodKind = "month"
)

// Period is the half-open interval [Start, End).
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

func DayOf(t time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return Period{Kind: PeriodDay, Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}
}

func MonthOf(t time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Period{Kind: PeriodMonth, Start: start.UTC(), End: start.AddDate(0, 1, 0).UTC()}
}

// ParsePeriod accepts kind "day" or "month" and a YYYY-MM-DD date.
func ParsePeriod(kind, date string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t := time.Now().In(loc)
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return Period{}, fmt.Errorf("invalid date %q", date)
		}
		t = parsed
	}
	switch PeriodKind(kind) {
	case PeriodDay, "":
		return DayOf(t, loc), nil
	case PeriodMonth:
		return MonthOf(t, loc), nil
	}
	return Period{}, fmt.Errorf("invalid period %q", kind)
}
