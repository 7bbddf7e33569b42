/*
calendar.go - Working-day classification

PURPOSE:
  Classifies a date as working or non-working given the company calendar.
  A date is non-working when it is a weekend, a national holiday, a
  company closure, or a local holiday matching the resource's location.

LOCATION MATCHING:
  National holidays and company closures apply to everyone. Local holidays
  apply only when the event's location equals the location asked about; an
  empty location never matches a local holiday, so a resource with no
  recorded site still gets the nationwide days off and nothing else.

PURITY:
  Counting working days is a pure function of (calendar, range, location).
  Nothing here reads the wall clock; the same call always returns the same
  count.

SEE ALSO:
  - types.go: CalendarEvent
  - aggregate.go: filters allocation days through IsWorkingDay
*/
package planning

// =============================================================================
// CALENDAR - Indexed holiday lookup
// =============================================================================

// Calendar indexes company calendar events by date for O(1) lookup while
// walking allocation maps.
type Calendar struct {
	byDate map[Day][]CalendarEvent
}

// NewCalendar indexes the given events. A nil or empty slice yields a
// weekends-only calendar.
func NewCalendar(events []CalendarEvent) *Calendar {
	c := &Calendar{byDate: make(map[Day][]CalendarEvent, len(events))}
	for _, e := range events {
		c.byDate[e.Date] = append(c.byDate[e.Date], e)
	}
	return c
}

// IsWorkingDay reports whether the date is a working day for a resource
// at the given location.
func (c *Calendar) IsWorkingDay(d Day, location string) bool {
	if d.IsWeekend() {
		return false
	}
	for _, e := range c.byDate[d] {
		switch e.Type {
		case EventNationalHoliday, EventCompanyClosure:
			return false
		case EventLocalHoliday:
			if location != "" && e.Location == location {
				return false
			}
		}
	}
	return true
}

// WorkingDays counts working days in the inclusive period for a location.
// An empty (inverted) period counts zero.
func (c *Calendar) WorkingDays(p Period, location string) int {
	if p.IsEmpty() {
		return 0
	}
	count := 0
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		if c.IsWorkingDay(d, location) {
			count++
		}
	}
	return count
}
