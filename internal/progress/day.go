package progress

import (
	"fmt"
	"time"
)

// Day is a calendar date with no time-of-day or location. It is comparable
// and safe to use as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// NormalizeDay truncates t to its calendar date in t's own location.
func NormalizeDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Time returns local midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays moves d by n calendar days. Arithmetic is done on calendar fields
// at UTC noon, so daylight-saving transitions never skip or repeat a day.
func (d Day) AddDays(n int) Day {
	return NormalizeDay(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Day) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
