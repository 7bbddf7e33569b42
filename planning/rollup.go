/*
rollup.go - Hierarchical grouping of aggregated values

PURPOSE:
  Groups assignment-grain aggregates by an ordered dimension path
  (e.g. contract -> project -> resource for a WBS view, or location for a
  site view) and by calendar month, producing a tree with subtotal nodes.
  Every reporting surface is one call here with a different path and unit.

ADDITIVITY:
  A leaf's total is the exact sum of its monthly values, and every parent
  is the exact sum of its children. To keep that invariant exact under
  decimal division (the FTE unit divides), values are computed once per
  (assignment, month) and summed upward; the whole-window total is never
  recomputed independently of the monthly buckets.

SKIPPING:
  An assignment whose resolved owner entity at any level is absent (the
  resource, project, client or contract was deleted) is skipped silently.

SORTING:
  The engine does not order siblings; callers sort Children however the
  screen needs (typically descending by Total).

SEE ALSO:
  - aggregate.go: the per-assignment reduction
  - types.go: Snapshot indexes used to resolve owners
*/
package planning

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DIMENSIONS AND UNITS
// =============================================================================

type Dimension string

const (
	DimensionResource   Dimension = "resource"
	DimensionProject    Dimension = "project"
	DimensionClient     Dimension = "client"
	DimensionContract   Dimension = "contract"
	DimensionLocation   Dimension = "location"
	DimensionHorizontal Dimension = "horizontal"
)

type Unit string

const (
	UnitDays Unit = "days"
	UnitFTE  Unit = "fte"
	UnitCost Unit = "cost"
)

// ReferenceWorkingDaysPerMonth is the fixed divisor for the FTE unit.
// Deliberately a constant rather than the exact per-resource working-day
// count: aggregate views trade that precision for speed.
const ReferenceWorkingDaysPerMonth = 20

var referenceDays = decimal.NewFromInt(ReferenceWorkingDaysPerMonth)

// =============================================================================
// ROLLUP NODE
// =============================================================================

// RollupNode is one node of the rollup tree. Leaves have no children.
// Monthly is keyed by "YYYY-MM".
type RollupNode struct {
	ID      string
	Label   string
	Total   decimal.Decimal
	Monthly map[string]decimal.Decimal
	Children []*RollupNode

	index map[string]*RollupNode
}

func newRollupNode(id, label string) *RollupNode {
	return &RollupNode{
		ID:      id,
		Label:   label,
		Total:   decimal.Zero,
		Monthly: make(map[string]decimal.Decimal),
		index:   make(map[string]*RollupNode),
	}
}

func (n *RollupNode) child(id, label string) *RollupNode {
	if c, ok := n.index[id]; ok {
		return c
	}
	c := newRollupNode(id, label)
	n.index[id] = c
	n.Children = append(n.Children, c)
	return c
}

func (n *RollupNode) add(monthKey string, v decimal.Decimal) {
	n.Total = n.Total.Add(v)
	n.Monthly[monthKey] = n.Monthly[monthKey].Add(v)
}

// =============================================================================
// ROLLUP - Build the tree
// =============================================================================

// RollupInput carries one rollup request. Costs is required for UnitCost
// and ignored otherwise. An empty dimension path yields a root with
// totals and no children.
type RollupInput struct {
	Snapshot   *Snapshot
	Dimensions []Dimension
	Window     Period
	Unit       Unit
	Costs      CostResolver
}

// Rollup groups every assignment's aggregate along the dimension path.
func Rollup(in RollupInput) (*RollupNode, error) {
	switch in.Unit {
	case UnitDays, UnitFTE, UnitCost, "":
	default:
		return nil, ErrUnknownUnit
	}
	for _, d := range in.Dimensions {
		switch d {
		case DimensionResource, DimensionProject, DimensionClient,
			DimensionContract, DimensionLocation, DimensionHorizontal:
		default:
			return nil, ErrUnknownDimension
		}
	}

	unit := in.Unit
	if unit == "" {
		unit = UnitDays
	}
	var costs CostResolver
	if unit == UnitCost {
		costs = in.Costs
	}

	root := newRollupNode("total", "Total")
	s := in.Snapshot

	for _, a := range s.Assignments {
		keys, ok := resolvePath(s, a, in.Dimensions)
		if !ok {
			continue
		}

		// One aggregate per calendar month keeps the monthly buckets and
		// every ancestor total in exact agreement.
		for _, m := range in.Window.Months() {
			sub := m.Period().Intersect(in.Window)
			agg, ok := s.AggregateAssignment(a, sub, costs)
			if !ok {
				break
			}
			v := valueIn(agg, unit)
			if v.IsZero() {
				continue
			}
			node := root
			node.add(m.String(), v)
			for _, k := range keys {
				node = node.child(k.id, k.label)
				node.add(m.String(), v)
			}
		}
	}

	return root, nil
}

func valueIn(agg AggregateResult, unit Unit) decimal.Decimal {
	switch unit {
	case UnitCost:
		return agg.Cost
	case UnitFTE:
		return SafeRatio(agg.PersonDays, referenceDays)
	default:
		return agg.PersonDays
	}
}

// =============================================================================
// DIMENSION KEY RESOLUTION
// =============================================================================

type pathKey struct {
	id    string
	label string
}

// resolvePath resolves the grouping key at each level for one assignment.
// Any unresolvable owner entity excludes the assignment.
func resolvePath(s *Snapshot, a Assignment, dims []Dimension) ([]pathKey, bool) {
	res, hasResource := s.Resources[a.ResourceID]
	if !hasResource {
		return nil, false
	}
	project, hasProject := s.Projects[a.ProjectID]
	if !hasProject {
		return nil, false
	}

	keys := make([]pathKey, 0, len(dims))
	for _, d := range dims {
		switch d {
		case DimensionResource:
			keys = append(keys, pathKey{id: string(res.ID), label: res.Name})
		case DimensionProject:
			keys = append(keys, pathKey{id: string(project.ID), label: project.Name})
		case DimensionClient:
			client, ok := s.Clients[project.ClientID]
			if !ok {
				return nil, false
			}
			keys = append(keys, pathKey{id: string(client.ID), label: client.Name})
		case DimensionContract:
			contract, ok := s.Contracts[project.ContractID]
			if !ok {
				return nil, false
			}
			label := contract.WBSCode
			if label == "" {
				label = contract.Name
			}
			keys = append(keys, pathKey{id: string(contract.ID), label: label})
		case DimensionLocation:
			keys = append(keys, pathKey{id: res.Location, label: locationLabel(res.Location)})
		case DimensionHorizontal:
			keys = append(keys, pathKey{id: res.Horizontal, label: locationLabel(res.Horizontal)})
		}
	}
	return keys, true
}

func locationLabel(v string) string {
	if v == "" {
		return "(unassigned)"
	}
	return v
}

// =============================================================================
// UTILIZATION - Flat per-resource summary
// =============================================================================

// UtilizationRow reports one resource's load against its working-day
// capacity in the window. Utilization is person-days over working days,
// zero when the clipped window has no working days.
type UtilizationRow struct {
	ResourceID  ResourceID
	Name        string
	PersonDays  decimal.Decimal
	WorkingDays int
	Utilization decimal.Decimal
}

// ResourceUtilization computes the flat per-resource utilization table
// the staffing dashboard is built from.
func ResourceUtilization(s *Snapshot, window Period) []UtilizationRow {
	rows := make([]UtilizationRow, 0, len(s.Resources))
	for id, res := range s.Resources {
		clipped := window.Intersect(res.EffectiveWindow())
		working := s.Calendar.WorkingDays(clipped, res.Location)
		agg := s.AggregateResource(id, window, nil)
		rows = append(rows, UtilizationRow{
			ResourceID:  id,
			Name:        res.Name,
			PersonDays:  agg.PersonDays,
			WorkingDays: working,
			Utilization: SafeRatio(agg.PersonDays, decimal.NewFromInt(int64(working))),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ResourceID < rows[j].ResourceID })
	return rows
}
