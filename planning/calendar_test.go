package planning_test

import (
	"testing"

	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Shared fixture builders for the whole package live in aggregate_test.go.

func day(s string) planning.Day { return planning.MustDay(s) }

func window(from, to string) planning.Period {
	return planning.Period{Start: day(from), End: day(to)}
}

// =============================================================================
// WORKING-DAY CLASSIFICATION
// =============================================================================

func TestCalendar_Weekend_NotWorking(t *testing.T) {
	// GIVEN: An empty calendar (weekends only)
	// WHEN: Classifying a Saturday and a Sunday
	// THEN: Both are non-working, the Monday after is working

	cal := planning.NewCalendar(nil)

	if cal.IsWorkingDay(day("2024-06-01"), "Milan") {
		t.Error("Saturday should not be a working day")
	}
	if cal.IsWorkingDay(day("2024-06-02"), "Milan") {
		t.Error("Sunday should not be a working day")
	}
	if !cal.IsWorkingDay(day("2024-06-03"), "Milan") {
		t.Error("Monday should be a working day")
	}
}

func TestCalendar_NationalHolidayAndClosure_ApplyEverywhere(t *testing.T) {
	// GIVEN: A national holiday and a company closure on weekdays
	// WHEN: Classifying them for any location, including none
	// THEN: Both are non-working everywhere

	cal := planning.NewCalendar([]planning.CalendarEvent{
		{Date: day("2024-06-05"), Type: planning.EventNationalHoliday},
		{Date: day("2024-06-06"), Type: planning.EventCompanyClosure},
	})

	for _, loc := range []string{"Milan", "Rome", ""} {
		if cal.IsWorkingDay(day("2024-06-05"), loc) {
			t.Errorf("national holiday should be non-working for location %q", loc)
		}
		if cal.IsWorkingDay(day("2024-06-06"), loc) {
			t.Errorf("company closure should be non-working for location %q", loc)
		}
	}
}

func TestCalendar_LocalHoliday_MatchesLocationOnly(t *testing.T) {
	// GIVEN: A Milan-only holiday on a Monday
	// WHEN: Classifying it for Milan, Rome, and a resource with no location
	// THEN: Only Milan gets the day off; empty location never matches

	cal := planning.NewCalendar([]planning.CalendarEvent{
		{Date: day("2024-06-03"), Type: planning.EventLocalHoliday, Location: "Milan"},
	})

	if cal.IsWorkingDay(day("2024-06-03"), "Milan") {
		t.Error("local holiday should be non-working in Milan")
	}
	if !cal.IsWorkingDay(day("2024-06-03"), "Rome") {
		t.Error("Milan holiday should not apply to Rome")
	}
	if !cal.IsWorkingDay(day("2024-06-03"), "") {
		t.Error("empty location should not match a local holiday")
	}
}

// =============================================================================
// WORKING-DAY COUNTS
// =============================================================================

func TestCalendar_WorkingDays_InclusiveBothEnds(t *testing.T) {
	// GIVEN: A Monday-to-Friday week with no holidays
	// WHEN: Counting working days
	// THEN: All five days count, both bounds included

	cal := planning.NewCalendar(nil)

	got := cal.WorkingDays(window("2024-06-03", "2024-06-07"), "")
	if got != 5 {
		t.Errorf("expected 5 working days, got %d", got)
	}

	// Full calendar month: June 2024 has 20 weekdays.
	got = cal.WorkingDays(window("2024-06-01", "2024-06-30"), "")
	if got != 20 {
		t.Errorf("expected 20 working days in June 2024, got %d", got)
	}
}

func TestCalendar_WorkingDays_HolidayExcluded(t *testing.T) {
	cal := planning.NewCalendar([]planning.CalendarEvent{
		{Date: day("2024-06-05"), Type: planning.EventNationalHoliday},
		{Date: day("2024-06-04"), Type: planning.EventLocalHoliday, Location: "Milan"},
	})

	if got := cal.WorkingDays(window("2024-06-03", "2024-06-07"), "Milan"); got != 3 {
		t.Errorf("expected 3 working days for Milan, got %d", got)
	}
	if got := cal.WorkingDays(window("2024-06-03", "2024-06-07"), "Rome"); got != 4 {
		t.Errorf("expected 4 working days for Rome, got %d", got)
	}
}

func TestCalendar_WorkingDays_InvertedRange_Zero(t *testing.T) {
	// GIVEN: A window whose start is after its end
	// WHEN: Counting working days
	// THEN: The count is 0, not an error

	cal := planning.NewCalendar(nil)
	if got := cal.WorkingDays(window("2024-06-10", "2024-06-03"), ""); got != 0 {
		t.Errorf("expected 0 for inverted range, got %d", got)
	}
}

func TestCalendar_WorkingDays_Idempotent(t *testing.T) {
	cal := planning.NewCalendar([]planning.CalendarEvent{
		{Date: day("2024-06-05"), Type: planning.EventNationalHoliday},
	})
	w := window("2024-06-01", "2024-06-30")

	first := cal.WorkingDays(w, "Milan")
	for i := 0; i < 5; i++ {
		if got := cal.WorkingDays(w, "Milan"); got != first {
			t.Fatalf("repeated call changed result: %d != %d", got, first)
		}
	}
}
