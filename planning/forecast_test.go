package planning_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// FIXTURE - One resource staffed at 50% through May, June onward empty
// =============================================================================

// forecastSnapshot returns a snapshot where r-ann worked every working
// day of May 2024 at the given percentage and has no entries after May.
func forecastSnapshot(mayPct int) *planning.Snapshot {
	cal := planning.NewCalendar(nil)
	a := planning.NewAllocation()
	fillWorkingDays(a, cal, window("2024-05-01", "2024-05-31"), "Milan", mayPct)

	resources := []planning.Resource{
		{ID: "r-ann", Name: "Ann", Location: "Milan", RoleID: "role-dev",
			HireDate: day("2024-01-01"), MaxStaffingPercentage: 100},
	}
	projects := []planning.Project{
		{ID: "p-alpha", Name: "Alpha", ClientID: "c-acme",
			StartDate: day("2024-01-01"), EndDate: day("2024-12-31"),
			RealizationPercentage: 100},
	}
	assignments := []planning.Assignment{
		{ID: "a-1", ResourceID: "r-ann", ProjectID: "p-alpha"},
	}
	return planning.NewSnapshot(resources, nil, projects, nil, nil, assignments,
		map[planning.AssignmentID]*planning.Allocation{"a-1": a}, cal)
}

func month(s string) planning.Month {
	m, err := planning.ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

func projectMonth(s *planning.Snapshot, target string, now string) planning.ForecastResult {
	return planning.ProjectMonth(planning.ForecastInput{
		Snapshot:   s,
		Assignment: s.Assignments[0],
		Target:     month(target),
		Now:        day(now),
	})
}

// =============================================================================
// ACTUAL STATE
// =============================================================================

func TestProjectMonth_PastMonth_Actual(t *testing.T) {
	// GIVEN: May 2024 fully allocated at 50%, "now" in June
	// WHEN: Evaluating May
	// THEN: ACTUAL with the exact aggregate (23 working days * 0.5)

	snap := forecastSnapshot(50)
	got := projectMonth(snap, "2024-05", "2024-06-15")

	if got.State != planning.StateActual {
		t.Fatalf("expected ACTUAL, got %s", got.State)
	}
	equalDec(t, "personDays", got.PersonDays, dec(11.5))
}

func TestProjectMonth_CurrentMonth_Actual(t *testing.T) {
	// The current month reports actuals even when empty.

	snap := forecastSnapshot(50)
	got := projectMonth(snap, "2024-06", "2024-06-15")

	if got.State != planning.StateActual {
		t.Fatalf("expected ACTUAL for current month, got %s", got.State)
	}
	equalDec(t, "personDays", got.PersonDays, decimal.Zero)
}

func TestProjectMonth_FutureMonthWithKeys_Actual(t *testing.T) {
	// GIVEN: A future month that already has one allocation key
	// WHEN: Evaluating it
	// THEN: ACTUAL, not PROJECTED - partial real data is treated as fully
	//       actual, never blended with projection

	snap := forecastSnapshot(50)
	snap.AllocationFor("a-1").Set(day("2024-08-05"), 100)

	got := projectMonth(snap, "2024-08", "2024-06-15")

	if got.State != planning.StateActual {
		t.Fatalf("expected ACTUAL for future month with data, got %s", got.State)
	}
	equalDec(t, "personDays", got.PersonDays, dec(1))
}

// =============================================================================
// PROJECTED STATE
// =============================================================================

func TestProjectMonth_FutureGap_ProjectsRunRate(t *testing.T) {
	// GIVEN: 50% utilization through May (23 working days), June empty,
	//        "now" = 2024-06-15
	// WHEN: Evaluating July 2024 (23 working days)
	// THEN: PROJECTED at run-rate 0.5 -> 11.5 person-days

	snap := forecastSnapshot(50)
	got := projectMonth(snap, "2024-07", "2024-06-15")

	if got.State != planning.StateProjected {
		t.Fatalf("expected PROJECTED, got %s", got.State)
	}
	equalDec(t, "personDays", got.PersonDays, dec(11.5))
}

func TestProjectMonth_RunRate_AveragesTrailingMonths(t *testing.T) {
	// GIVEN: April fully allocated at 100%, May at 50%
	// WHEN: Projecting July
	// THEN: Run-rate is the average of the two monthly rates (0.75)

	snap := forecastSnapshot(50)
	fillWorkingDays(snap.AllocationFor("a-1"), snap.Calendar,
		window("2024-04-01", "2024-04-30"), "Milan", 100)

	got := projectMonth(snap, "2024-07", "2024-06-15")

	if got.State != planning.StateProjected {
		t.Fatalf("expected PROJECTED, got %s", got.State)
	}
	// 0.75 * 23 working days in July 2024
	equalDec(t, "personDays", got.PersonDays, dec(17.25))
}

func TestProjectMonth_RunRate_SkipsEmptyInterveningMonths(t *testing.T) {
	// A key-free June between the data and the target does not zero the
	// run-rate; the lookback walks past it to May.

	snap := forecastSnapshot(50)
	got := projectMonth(snap, "2024-08", "2024-06-15")

	if got.State != planning.StateProjected {
		t.Fatalf("expected PROJECTED, got %s", got.State)
	}
	// August 2024 has 22 working days; 0.5 * 22 = 11.
	equalDec(t, "personDays", got.PersonDays, dec(11))
}

// =============================================================================
// NO-DATA STATE
// =============================================================================

func TestProjectMonth_ProjectInactive_None(t *testing.T) {
	// GIVEN: The engagement ends 2024-07-31
	// WHEN: Evaluating August
	// THEN: NONE with zero - nothing to extrapolate onto

	snap := forecastSnapshot(50)
	p := snap.Projects["p-alpha"]
	p.EndDate = day("2024-07-31")
	snap.Projects["p-alpha"] = p

	got := projectMonth(snap, "2024-08", "2024-06-15")

	if got.State != planning.StateNone {
		t.Fatalf("expected NONE for inactive project, got %s", got.State)
	}
	equalDec(t, "personDays", got.PersonDays, decimal.Zero)
}

func TestProjectMonth_NoHistory_None(t *testing.T) {
	// A resource with no allocation data has no run-rate.

	snap := forecastSnapshot(50)
	snap.Allocations["a-1"] = planning.NewAllocation()

	got := projectMonth(snap, "2024-07", "2024-06-15")

	if got.State != planning.StateNone {
		t.Fatalf("expected NONE without history, got %s", got.State)
	}
}

func TestProjectMonth_ResignedBeforeMonth_None(t *testing.T) {
	// GIVEN: The resource's last day of work is 2024-06-28
	// WHEN: Projecting July
	// THEN: NONE - no working days remain inside the effective window

	snap := forecastSnapshot(50)
	r := snap.Resources["r-ann"]
	r.LastDayOfWork = day("2024-06-28")
	r.Resigned = true
	snap.Resources["r-ann"] = r

	got := projectMonth(snap, "2024-07", "2024-06-15")

	if got.State != planning.StateNone {
		t.Fatalf("expected NONE after resignation, got %s", got.State)
	}
}

// =============================================================================
// DERIVED FRESH EACH CALL
// =============================================================================

func TestProjectMonth_HistoryEditChangesProjection(t *testing.T) {
	// Nothing is persisted: halving May's allocation halves July's
	// projection on the next call.

	snap := forecastSnapshot(50)
	before := projectMonth(snap, "2024-07", "2024-06-15")

	halved := planning.NewAllocation()
	fillWorkingDays(halved, snap.Calendar, window("2024-05-01", "2024-05-31"), "Milan", 25)
	snap.Allocations["a-1"] = halved

	after := projectMonth(snap, "2024-07", "2024-06-15")

	equalDec(t, "before", before.PersonDays, dec(11.5))
	equalDec(t, "after", after.PersonDays, dec(5.75))
}
