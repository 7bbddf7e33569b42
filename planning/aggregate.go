/*
aggregate.go - Sparse allocation reduction to person-days and cost

PURPOSE:
  Walks an assignment's sparse Day -> percentage map and reduces it to
  effective person-days and cost over a window. This is the computation
  every report and dashboard shape reuses; rollups and forecasts both
  build on it.

ALGORITHM:
  1. Intersect the requested window with the resource's effective window
     [HireDate, LastDayOfWork] and, when project bounds are known, with
     [Project.StartDate, Project.EndDate].
  2. For each allocated day inside the intersection that is a working day
     at the resource's location, add percentage/100 to person-days.
  3. With a cost resolver, also add
     percentage/100 * dailyCost(role, day) * realization/100.

SILENT EXCLUSION:
  Days outside the clipped window, weekends, holidays and days after a
  recorded resignation simply do not count. Storage may legitimately hold
  stale future allocation rows after a resignation is recorded; those are
  reported as zero, not as errors.

SEE ALSO:
  - calendar.go: working-day filter
  - cost.go: rate resolution
  - rollup.go / forecast.go: callers
*/
package planning

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// =============================================================================
// AGGREGATE - Assignment-grain reduction
// =============================================================================

// AggregateInput carries one assignment-grain aggregation request.
// Project may be nil when bounds are unknown (no clipping, realization
// treated as 100). Costs may be nil for a person-days-only pass.
type AggregateInput struct {
	Resource   Resource
	Project    *Project
	Allocation *Allocation
	Window     Period
	Calendar   *Calendar
	Costs      CostResolver
}

// AggregateResult is the reduced value. Cost stays zero without a
// resolver.
type AggregateResult struct {
	PersonDays decimal.Decimal
	Cost       decimal.Decimal
}

// Add sums two results component-wise.
func (r AggregateResult) Add(o AggregateResult) AggregateResult {
	return AggregateResult{
		PersonDays: r.PersonDays.Add(o.PersonDays),
		Cost:       r.Cost.Add(o.Cost),
	}
}

// Aggregate reduces the allocation to person-days and cost over the
// window. A nil or empty allocation yields zeros.
func Aggregate(in AggregateInput) AggregateResult {
	result := AggregateResult{PersonDays: decimal.Zero, Cost: decimal.Zero}

	window := in.Window.Intersect(in.Resource.EffectiveWindow())
	if in.Project != nil {
		window = window.Intersect(in.Project.Window())
	}
	if window.IsEmpty() || in.Allocation.Len() == 0 {
		return result
	}

	calendar := in.Calendar
	if calendar == nil {
		calendar = NewCalendar(nil)
	}

	realization := hundred
	if in.Project != nil && in.Project.RealizationPercentage != 0 {
		realization = decimal.NewFromInt(int64(in.Project.RealizationPercentage))
	}

	in.Allocation.ForEachInRange(window, func(d Day, pct int) {
		if !calendar.IsWorkingDay(d, in.Resource.Location) {
			return
		}
		fraction := decimal.NewFromInt(int64(pct)).Div(hundred)
		result.PersonDays = result.PersonDays.Add(fraction)
		if in.Costs != nil {
			daily := in.Costs.DailyCost(in.Resource.RoleID, d)
			result.Cost = result.Cost.Add(fraction.Mul(daily).Mul(realization.Div(hundred)))
		}
	})

	return result
}

// =============================================================================
// SNAPSHOT-LEVEL CONVENIENCE
// =============================================================================

// AggregateAssignment aggregates one assignment from the snapshot. An
// assignment referencing a deleted resource or project contributes
// nothing (ok=false), per the silent-skip policy.
func (s *Snapshot) AggregateAssignment(a Assignment, window Period, costs CostResolver) (AggregateResult, bool) {
	res, found := s.Resources[a.ResourceID]
	if !found {
		return AggregateResult{PersonDays: decimal.Zero, Cost: decimal.Zero}, false
	}
	var project *Project
	if p, found := s.Projects[a.ProjectID]; found {
		project = &p
	} else {
		return AggregateResult{PersonDays: decimal.Zero, Cost: decimal.Zero}, false
	}
	return Aggregate(AggregateInput{
		Resource:   res,
		Project:    project,
		Allocation: s.AllocationFor(a.ID),
		Window:     window,
		Calendar:   s.Calendar,
		Costs:      costs,
	}), true
}

// AggregateResource sums the aggregates of all of a resource's
// assignments over the window.
func (s *Snapshot) AggregateResource(id ResourceID, window Period, costs CostResolver) AggregateResult {
	total := AggregateResult{PersonDays: decimal.Zero, Cost: decimal.Zero}
	for _, a := range s.AssignmentsForResource(id) {
		if r, ok := s.AggregateAssignment(a, window, costs); ok {
			total = total.Add(r)
		}
	}
	return total
}

// SafeRatio divides num by den, returning zero for a zero denominator.
// Every ratio the engine reports (utilization, FTE, run-rate) goes
// through here so a window with no working days never yields NaN.
func SafeRatio(num decimal.Decimal, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
