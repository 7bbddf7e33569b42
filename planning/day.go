/*
day.go - Day and Period value types

PURPOSE:
  All engine arithmetic is day-granular. Day is a normalized UTC calendar
  date; Period is an inclusive [Start, End] date range. Allocation maps,
  cost history records and calendar events are all keyed by Day, so there
  is exactly one place where string dates are parsed and formatted.

WHY A VALUE TYPE:
  The allocation data historically lived in string-keyed maps, with call
  sites mixing local-time and UTC day-of-week checks. Day normalizes to
  UTC midnight on construction and formats canonically as ISO 8601
  (2006-01-02), so a date compares equal regardless of where it came from.

SEE ALSO:
  - calendar.go: Working-day classification over Days
  - types.go: Allocation container keyed by Day
*/
package planning

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Normalized UTC calendar date
// =============================================================================

// Day is a calendar date at UTC midnight. The zero Day is "no date"
// (used for open-ended resource and project windows).
type Day struct {
	t time.Time
}

const dayLayout = "2006-01-02"

// NewDay constructs a Day from calendar components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary time to its UTC calendar date.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// ParseDay parses a canonical ISO date (2006-01-02).
// Malformed input is an error, never a zero Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return Day{t: t}, nil
}

// MustDay parses a canonical ISO date or panics. For tests and fixtures.
func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Day) Before(o Day) bool        { return d.t.Before(o.t) }
func (d Day) After(o Day) bool         { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool         { return d.t.Equal(o.t) }
func (d Day) BeforeOrEqual(o Day) bool { return !d.t.After(o.t) }
func (d Day) AfterOrEqual(o Day) bool  { return !d.t.Before(o.t) }
func (d Day) IsZero() bool             { return d.t.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) DayOfMonth() int       { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Time exposes the underlying UTC midnight instant, for storage layers.
func (d Day) Time() time.Time { return d.t }

// String formats the canonical ISO date.
func (d Day) String() string { return d.t.Format(dayLayout) }

// MonthKey formats the calendar-month bucket key used by rollups ("2006-01").
func (d Day) MonthKey() string { return d.t.Format("2006-01") }

// Max returns the later of two days; zero days lose.
func (d Day) Max(o Day) Day {
	if d.IsZero() {
		return o
	}
	if o.IsZero() || d.After(o) {
		return d
	}
	return o
}

// Min returns the earlier of two days; zero days lose.
func (d Day) Min(o Day) Day {
	if d.IsZero() {
		return o
	}
	if o.IsZero() || d.Before(o) {
		return d
	}
	return o
}

// =============================================================================
// MONTH - Calendar month, the forecasting grain
// =============================================================================

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing a day.
func MonthOf(d Day) Month { return Month{Year: d.Year(), Month: d.Month()} }

// ParseMonth parses a "2006-01" month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) First() Day { return NewDay(m.Year, m.Month, 1) }
func (m Month) Last() Day  { return m.First().AddMonths(1).AddDays(-1) }
func (m Month) Period() Period {
	return Period{Start: m.First(), End: m.Last()}
}
func (m Month) Prev() Month { return MonthOf(m.First().AddMonths(-1)) }
func (m Month) Next() Month { return MonthOf(m.First().AddMonths(1)) }

// Before compares calendar order.
func (m Month) Before(o Month) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Month < o.Month)
}

func (m Month) After(o Month) bool { return o.Before(m) }

func (m Month) String() string { return m.First().MonthKey() }

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [Start, End] date window.
// An inverted period (Start after End) is empty, not an error: effective-
// window clipping routinely produces empty intersections.
type Period struct {
	Start Day
	End   Day
}

// Contains reports whether a day falls inside the period.
func (p Period) Contains(d Day) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// IsEmpty reports whether the period covers no days.
func (p Period) IsEmpty() bool { return p.Start.After(p.End) }

// Intersect clips the period against another. Zero bounds on the other
// period mean "unbounded on that side".
func (p Period) Intersect(o Period) Period {
	out := p
	if !o.Start.IsZero() && o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if !o.End.IsZero() && o.End.Before(out.End) {
		out.End = o.End
	}
	return out
}

// Months returns the calendar months the period touches, in order.
func (p Period) Months() []Month {
	if p.IsEmpty() {
		return nil
	}
	var months []Month
	m := MonthOf(p.Start)
	last := MonthOf(p.End)
	for !last.Before(m) {
		months = append(months, m)
		m = m.Next()
	}
	return months
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
