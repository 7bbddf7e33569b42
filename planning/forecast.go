/*
forecast.go - Run-rate projection for months without explicit allocation

PURPOSE:
  For a (resource, project) pair and a target month, answers "what load
  should we expect?" Months with real data report the exact aggregate;
  strictly-future months with no allocation keys are projected by
  extrapolating the pair's recent actual utilization rate onto the
  month's working days.

STATES:
  ACTUAL     month is past/present, or already has at least one
             allocation key (a month with partial real data is treated
             as fully actual - no blending)
  PROJECTED  month is strictly future, key-free, and the engagement is
             active in it
  NONE       project inactive in the month, resource outside its
             effective window, or no historic data to extrapolate from

RUN-RATE:
  The average of personDays/workingDays over the most recent months that
  actually have allocation keys, looking back from the month before the
  target: up to 2 such months, scanning at most 12 months back. Months
  with zero working days are excluded from the denominator.

CLOCK:
  "Now" is an explicit parameter. Nothing is persisted: the projection is
  derived fresh from current actuals each call, so editing history
  immediately changes the future.

SEE ALSO:
  - aggregate.go: the actuals
  - calendar.go: working-day counts
*/
package planning

import "github.com/shopspring/decimal"

// =============================================================================
// FORECAST STATES
// =============================================================================

type ForecastState string

const (
	StateActual    ForecastState = "ACTUAL"
	StateProjected ForecastState = "PROJECTED"
	StateNone      ForecastState = "NONE"
)

const (
	runRateLookbackMonths = 2
	runRateScanHorizon    = 12
)

// ForecastResult is the projected or actual load for one month.
type ForecastResult struct {
	PersonDays decimal.Decimal
	State      ForecastState
}

// ForecastInput identifies the (assignment, month) to evaluate. Now
// classifies the target month as past/present/future.
type ForecastInput struct {
	Snapshot   *Snapshot
	Assignment Assignment
	Target     Month
	Now        Day
}

// =============================================================================
// PROJECT MONTH
// =============================================================================

// ProjectMonth evaluates one month of one assignment.
func ProjectMonth(in ForecastInput) ForecastResult {
	none := ForecastResult{PersonDays: decimal.Zero, State: StateNone}
	s := in.Snapshot

	res, found := s.Resources[in.Assignment.ResourceID]
	if !found {
		return none
	}
	project, found := s.Projects[in.Assignment.ProjectID]
	if !found {
		return none
	}
	alloc := s.AllocationFor(in.Assignment.ID)
	monthWindow := in.Target.Period()

	// Past, present, or any real data in the month: report actuals.
	current := MonthOf(in.Now)
	if !in.Target.After(current) || alloc.HasEntryIn(monthWindow) {
		agg, _ := s.AggregateAssignment(in.Assignment, monthWindow, nil)
		return ForecastResult{PersonDays: agg.PersonDays, State: StateActual}
	}

	// Strictly future and key-free from here on.
	if !activeIn(project, in.Target) {
		return none
	}
	effective := monthWindow.Intersect(res.EffectiveWindow())
	futureWorking := s.Calendar.WorkingDays(effective, res.Location)
	if futureWorking == 0 {
		return none
	}

	rate, found := runRate(s, in.Assignment, res, alloc, in.Target)
	if !found {
		return none
	}

	projected := rate.Mul(decimal.NewFromInt(int64(futureWorking)))
	return ForecastResult{PersonDays: projected, State: StateProjected}
}

// activeIn reports whether the project window overlaps the month.
func activeIn(p Project, m Month) bool {
	if !p.StartDate.IsZero() && p.StartDate.After(m.Last()) {
		return false
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(m.First()) {
		return false
	}
	return true
}

// runRate averages personDays/workingDays over the trailing months with
// actual data, walking back from the month before the target.
func runRate(s *Snapshot, a Assignment, res Resource, alloc *Allocation, target Month) (decimal.Decimal, bool) {
	sum := decimal.Zero
	samples := 0

	m := target.Prev()
	for scanned := 0; scanned < runRateScanHorizon && samples < runRateLookbackMonths; scanned++ {
		if !res.HireDate.IsZero() && m.Last().Before(res.HireDate) {
			break
		}
		window := m.Period()
		if alloc.HasEntryIn(window) {
			working := s.Calendar.WorkingDays(window.Intersect(res.EffectiveWindow()), res.Location)
			if working > 0 {
				agg, _ := s.AggregateAssignment(a, window, nil)
				sum = sum.Add(SafeRatio(agg.PersonDays, decimal.NewFromInt(int64(working))))
				samples++
			}
		}
		m = m.Prev()
	}

	if samples == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(samples))), true
}
