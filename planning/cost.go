/*
cost.go - Time-versioned role cost resolution (SCD Type 2)

PURPOSE:
  Resolves the daily cost of a role as of a specific date. Role costs are
  stored as a slowly-changing dimension: each change closes the open
  record (To = day before the change) and opens a new one, so past records
  are never edited and historical reports keep pricing work at the rate
  that was in force at the time.

CONTRACT:
  A past date with a historical record must resolve to that record, never
  to the current rate. A date covered by no record resolves to zero -
  "unknown cost is zero" is deliberate, since dashboards must still render
  periods that predate the first recorded rate.

INVARIANT (assumed, not enforced):
  Records are ordered, non-overlapping, with at most one open record.
  The writer enforces this; the resolver scans in order and takes the
  first containing record, so on a violated invariant the earlier record
  wins deterministically.

SEE ALSO:
  - types.go: Role
  - aggregate.go: multiplies resolved cost into the aggregate
*/
package planning

import "github.com/shopspring/decimal"

// =============================================================================
// COST RECORD - One SCD2 history row
// =============================================================================

// CostRecord is one validity window of a role's daily cost. A zero To
// means the record is still open. Both bounds are inclusive: closing a
// record sets To to the day before the new record's From.
type CostRecord struct {
	DailyCost decimal.Decimal
	From      Day
	To        Day
}

// Contains reports whether the record is in force on the given day.
func (r CostRecord) Contains(d Day) bool {
	if d.Before(r.From) {
		return false
	}
	return r.To.IsZero() || d.BeforeOrEqual(r.To)
}

// =============================================================================
// COST RESOLVER
// =============================================================================

// CostResolver resolves a role's daily cost as of a date. Aggregation
// accepts any implementation; nil means "person-days only, no costing".
type CostResolver interface {
	DailyCost(roleID RoleID, d Day) decimal.Decimal
}

// HistoryResolver resolves costs from per-role SCD2 histories.
type HistoryResolver struct {
	histories map[RoleID][]CostRecord
}

// NewHistoryResolver indexes the roles' cost histories.
func NewHistoryResolver(roles []Role) *HistoryResolver {
	h := &HistoryResolver{histories: make(map[RoleID][]CostRecord, len(roles))}
	for _, r := range roles {
		h.histories[r.ID] = r.CostHistory
	}
	return h
}

// DailyCost returns the cost in force for the role on the given day, or
// zero when no record covers it (unknown role, date before first record).
func (h *HistoryResolver) DailyCost(roleID RoleID, d Day) decimal.Decimal {
	for _, rec := range h.histories[roleID] {
		if rec.Contains(d) {
			return rec.DailyCost
		}
	}
	return decimal.Zero
}
