package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is a civil-date interval, inclusive at both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseDateRange parses "2006-01-02" bounds and validates start <= end.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.ParseInLocation(dateLayout, start, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q", start)
	}
	e, err := time.ParseInLocation(dateLayout, end, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q", end)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end date %s before start date %s", end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

// Days returns the inclusive day count: both endpoints bill as rental days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// Overlaps reports whether two inclusive ranges intersect.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

func (r DateRange) String() string {
	return r.Start.Format(dateLayout) + " / " + r.End.Format(dateLayout)
}
