/*
Package planning provides the allocation aggregation and costing engine.

PURPOSE:
  This package answers, for any window of time and any grouping of the
  staffing data: how many effective person-days does the planned allocation
  represent, what does it cost given time-varying role rates, and what is
  the projected load for months that have no explicit allocation yet.

KEY CONCEPTS IN THIS FILE (types.go):
  - Resource/Role/Project/Client/Contract: immutable entity snapshots
  - Assignment: one resource staffed on one project
  - Allocation: per-assignment sparse Day -> percentage map
  - Snapshot: pre-indexed view of all entities, passed per call

DESIGN PRINCIPLES:
  1. Purity: the engine reads snapshots, never mutates them, never does I/O
  2. Precision: decimal.Decimal for person-days and cost, no floats
  3. Defensive defaulting: unknown cost is zero, dangling references skip
  4. Canonical dates: every date is a Day, parsed and formatted in one place

USAGE:
  snap := planning.NewSnapshot(resources, roles, projects, clients,
      contracts, assignments, allocations, calendar)
  res := planning.Aggregate(planning.AggregateInput{
      Snapshot:   snap,
      Assignment: a,
      Window:     window,
      Costs:      planning.NewHistoryResolver(roles),
  })

SEE ALSO:
  - aggregate.go: person-day and cost reduction
  - rollup.go: hierarchical grouping
  - forecast.go: run-rate projection
*/
package planning

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ResourceID string
type RoleID string
type ProjectID string
type ClientID string
type ContractID string
type AssignmentID string

// =============================================================================
// ENTITIES - Immutable snapshots owned by the surrounding application
// =============================================================================

// Resource is a staffable person. Its effective window is
// [HireDate, LastDayOfWork]; a zero LastDayOfWork means still employed.
// The resignation day itself counts as worked (see DESIGN.md).
type Resource struct {
	ID         ResourceID
	Name       string
	Location   string
	Horizontal string // department / practice grouping
	RoleID     RoleID
	HireDate   Day
	LastDayOfWork Day

	// Capacity cap as a percentage (default 100). The engine reports
	// against it but never rejects over-allocation.
	MaxStaffingPercentage int

	Resigned bool
}

// EffectiveWindow returns the clipping window implied by hire and
// resignation dates. Zero bounds are open-ended.
func (r Resource) EffectiveWindow() Period {
	return Period{Start: r.HireDate, End: r.LastDayOfWork}
}

// Role carries the SCD2 daily-cost history (see cost.go).
type Role struct {
	ID          RoleID
	Name        string
	CostHistory []CostRecord
}

// Project bounds and bills the work. RealizationPercentage is the billing
// adjustment factor applied to raw cost (default 100).
type Project struct {
	ID        ProjectID
	Name      string
	ClientID  ClientID
	ContractID ContractID
	StartDate Day
	EndDate   Day
	Budget    decimal.Decimal
	RealizationPercentage int
	Status    string
}

// Window returns the project bounds as a clipping period.
func (p Project) Window() Period {
	return Period{Start: p.StartDate, End: p.EndDate}
}

// Client is a grouping key only.
type Client struct {
	ID   ClientID
	Name string
}

// Contract is the WBS/cost-center grouping key. Ceiling is used for
// backlog math outside this engine.
type Contract struct {
	ID      ContractID
	Name    string
	WBSCode string
	Ceiling decimal.Decimal
}

// Assignment links one resource to one project. The allocation itself is
// kept out of the struct and looked up by AssignmentID, mirroring how the
// surrounding application stores it.
type Assignment struct {
	ID         AssignmentID
	ResourceID ResourceID
	ProjectID  ProjectID
}

// =============================================================================
// CALENDAR EVENTS
// =============================================================================

type EventType string

const (
	EventNationalHoliday EventType = "NATIONAL_HOLIDAY"
	EventCompanyClosure  EventType = "COMPANY_CLOSURE"
	EventLocalHoliday    EventType = "LOCAL_HOLIDAY"
)

// CalendarEvent marks a non-working day. National holidays and company
// closures apply everywhere; local holidays only where Location matches.
type CalendarEvent struct {
	Date     Day
	Type     EventType
	Location string // only meaningful for EventLocalHoliday
}

// =============================================================================
// ALLOCATION - Sparse Day -> percentage map, per assignment
// =============================================================================

// Allocation is an ordered sparse map from Day to an integer staffing
// percentage. Absence of a day means "no allocation", which is outside the
// aggregation entirely, not a billable zero. Percentages are stored as
// given: the engine does not clamp negative or >100 values.
type Allocation struct {
	entries map[Day]int
	days    []Day // sorted; rebuilt lazily after Set
	sorted  bool
}

// NewAllocation returns an empty allocation.
func NewAllocation() *Allocation {
	return &Allocation{entries: make(map[Day]int)}
}

// ParseAllocation builds an allocation from a raw ISO-string-keyed map.
// A malformed key rejects the whole map (fail fast, uniformly): silently
// dropping keys would make totals wrong without a trace.
func ParseAllocation(id AssignmentID, raw map[string]int) (*Allocation, error) {
	a := NewAllocation()
	for k, pct := range raw {
		d, err := ParseDay(k)
		if err != nil {
			return nil, &AllocationKeyError{AssignmentID: id, Key: k}
		}
		a.Set(d, pct)
	}
	return a, nil
}

// Set records the percentage for a day, replacing any previous value.
func (a *Allocation) Set(d Day, percentage int) {
	if _, exists := a.entries[d]; !exists {
		a.days = append(a.days, d)
		a.sorted = false
	}
	a.entries[d] = percentage
}

// Get returns the percentage for a day and whether one is present.
func (a *Allocation) Get(d Day) (int, bool) {
	if a == nil {
		return 0, false
	}
	pct, ok := a.entries[d]
	return pct, ok
}

// Len returns the number of allocated days.
func (a *Allocation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Days returns the allocated days in ascending order.
func (a *Allocation) Days() []Day {
	if a == nil {
		return nil
	}
	if !a.sorted {
		sort.Slice(a.days, func(i, j int) bool { return a.days[i].Before(a.days[j]) })
		a.sorted = true
	}
	out := make([]Day, len(a.days))
	copy(out, a.days)
	return out
}

// HasEntryIn reports whether any allocated day falls inside the period.
func (a *Allocation) HasEntryIn(p Period) bool {
	if a == nil || p.IsEmpty() {
		return false
	}
	for d := range a.entries {
		if p.Contains(d) {
			return true
		}
	}
	return false
}

// ForEachInRange visits allocated days inside the period in ascending
// order. Iteration is over present keys only, never over the calendar.
func (a *Allocation) ForEachInRange(p Period, fn func(d Day, percentage int)) {
	if a == nil || p.IsEmpty() {
		return
	}
	for _, d := range a.Days() {
		if d.Before(p.Start) {
			continue
		}
		if d.After(p.End) {
			break
		}
		fn(d, a.entries[d])
	}
}

// =============================================================================
// SNAPSHOT - Pre-indexed immutable view of the staffing data
// =============================================================================

// Snapshot is the per-call input to every engine operation. Construction
// builds id indexes once so repeated rollups never fall back to linear
// scans over the raw slices.
type Snapshot struct {
	Resources  map[ResourceID]Resource
	Roles      map[RoleID]Role
	Projects   map[ProjectID]Project
	Clients    map[ClientID]Client
	Contracts  map[ContractID]Contract
	Assignments []Assignment

	Allocations map[AssignmentID]*Allocation

	byResource map[ResourceID][]Assignment
	byProject  map[ProjectID][]Assignment

	Calendar *Calendar
}

// NewSnapshot indexes the raw entity slices into a Snapshot.
func NewSnapshot(
	resources []Resource,
	roles []Role,
	projects []Project,
	clients []Client,
	contracts []Contract,
	assignments []Assignment,
	allocations map[AssignmentID]*Allocation,
	calendar *Calendar,
) *Snapshot {
	s := &Snapshot{
		Resources:   make(map[ResourceID]Resource, len(resources)),
		Roles:       make(map[RoleID]Role, len(roles)),
		Projects:    make(map[ProjectID]Project, len(projects)),
		Clients:     make(map[ClientID]Client, len(clients)),
		Contracts:   make(map[ContractID]Contract, len(contracts)),
		Assignments: assignments,
		Allocations: allocations,
		byResource:  make(map[ResourceID][]Assignment),
		byProject:   make(map[ProjectID][]Assignment),
		Calendar:    calendar,
	}
	if s.Allocations == nil {
		s.Allocations = make(map[AssignmentID]*Allocation)
	}
	if s.Calendar == nil {
		s.Calendar = NewCalendar(nil)
	}
	for _, r := range resources {
		s.Resources[r.ID] = r
	}
	for _, r := range roles {
		s.Roles[r.ID] = r
	}
	for _, p := range projects {
		s.Projects[p.ID] = p
	}
	for _, c := range clients {
		s.Clients[c.ID] = c
	}
	for _, c := range contracts {
		s.Contracts[c.ID] = c
	}
	for _, a := range assignments {
		s.byResource[a.ResourceID] = append(s.byResource[a.ResourceID], a)
		s.byProject[a.ProjectID] = append(s.byProject[a.ProjectID], a)
	}
	return s
}

// AssignmentsForResource returns the resource's assignments (indexed).
func (s *Snapshot) AssignmentsForResource(id ResourceID) []Assignment {
	return s.byResource[id]
}

// AssignmentsForProject returns the project's assignments (indexed).
func (s *Snapshot) AssignmentsForProject(id ProjectID) []Assignment {
	return s.byProject[id]
}

// AllocationFor returns the assignment's allocation, possibly nil.
// A nil allocation aggregates as zero, same as an empty one.
func (s *Snapshot) AllocationFor(id AssignmentID) *Allocation {
	return s.Allocations[id]
}
