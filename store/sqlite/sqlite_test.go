/*
sqlite_test.go - Unit tests for the SQLite snapshot repository

Tests for:
- Entity round-trips through LoadSnapshot
- SCD2 cost-history writes (SetRoleCost)
- Allocation replace semantics
- Nullable date handling
*/
package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staffing-engine/planning"
)

func newTestStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadSnapshot_RoundTrip(t *testing.T) {
	// GIVEN: one of everything saved
	// WHEN: loading the snapshot
	// THEN: every entity comes back indexed with its fields intact

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRole(ctx, planning.Role{
		ID: "role-1", Name: "Consultant",
		CostHistory: []planning.CostRecord{
			{DailyCost: decimal.NewFromInt(300), From: planning.MustDay("2024-01-01")},
		},
	}))
	require.NoError(t, store.SaveClient(ctx, planning.Client{ID: "cl-1", Name: "Acme"}))
	require.NoError(t, store.SaveContract(ctx, planning.Contract{
		ID: "k-1", Name: "Frame", WBSCode: "WBS-1", Ceiling: decimal.NewFromInt(100000),
	}))
	require.NoError(t, store.SaveProject(ctx, planning.Project{
		ID: "p-1", Name: "Rollout", ClientID: "cl-1", ContractID: "k-1",
		StartDate: planning.MustDay("2024-02-01"), EndDate: planning.MustDay("2024-11-30"),
		Budget: decimal.NewFromInt(50000), RealizationPercentage: 90, Status: "active",
	}))
	require.NoError(t, store.SaveResource(ctx, planning.Resource{
		ID: "r-1", Name: "Anna", Location: "Milan", Horizontal: "Engineering",
		RoleID: "role-1", HireDate: planning.MustDay("2023-06-01"),
		MaxStaffingPercentage: 100,
	}))
	require.NoError(t, store.SaveAssignment(ctx, planning.Assignment{
		ID: "a-1", ResourceID: "r-1", ProjectID: "p-1",
	}))

	alloc := planning.NewAllocation()
	alloc.Set(planning.MustDay("2024-03-04"), 80)
	alloc.Set(planning.MustDay("2024-03-05"), 50)
	require.NoError(t, store.SaveAllocation(ctx, "a-1", alloc))

	require.NoError(t, store.SaveCalendarEvent(ctx, planning.CalendarEvent{
		Date: planning.MustDay("2024-03-08"), Type: planning.EventLocalHoliday, Location: "Milan",
	}))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	res, ok := snap.Resources["r-1"]
	require.True(t, ok)
	assert.Equal(t, "Anna", res.Name)
	assert.Equal(t, "Milan", res.Location)
	assert.True(t, res.LastDayOfWork.IsZero(), "open last day should load as zero")

	role, ok := snap.Roles["role-1"]
	require.True(t, ok)
	require.Len(t, role.CostHistory, 1)
	assert.True(t, role.CostHistory[0].DailyCost.Equal(decimal.NewFromInt(300)))
	assert.True(t, role.CostHistory[0].To.IsZero(), "open record should load as zero To")

	p, ok := snap.Projects["p-1"]
	require.True(t, ok)
	assert.Equal(t, planning.ContractID("k-1"), p.ContractID)
	assert.Equal(t, 90, p.RealizationPercentage)
	assert.Equal(t, planning.MustDay("2024-11-30"), p.EndDate)

	require.Len(t, snap.Assignments, 1)
	require.Len(t, snap.AssignmentsForResource("r-1"), 1)

	got := snap.AllocationFor("a-1")
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Len())
	pct, ok := got.Get(planning.MustDay("2024-03-04"))
	require.True(t, ok)
	assert.Equal(t, 80, pct)

	assert.False(t, snap.Calendar.IsWorkingDay(planning.MustDay("2024-03-08"), "Milan"))
	assert.True(t, snap.Calendar.IsWorkingDay(planning.MustDay("2024-03-08"), "Rome"))
}

func TestSetRoleCost_ClosesOpenRecord(t *testing.T) {
	// GIVEN: a role with one open cost record
	// WHEN: setting a new rate effective July 1st
	// THEN: the old record closes at June 30th and the new one is open

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRole(ctx, planning.Role{
		ID: "role-1", Name: "Consultant",
		CostHistory: []planning.CostRecord{
			{DailyCost: decimal.NewFromInt(300), From: planning.MustDay("2024-01-01")},
		},
	}))
	require.NoError(t, store.SetRoleCost(ctx, "role-1",
		decimal.NewFromInt(350), planning.MustDay("2024-07-01")))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	role := snap.Roles["role-1"]
	require.Len(t, role.CostHistory, 2)

	// Rows come back ordered by valid_from
	assert.Equal(t, planning.MustDay("2024-06-30"), role.CostHistory[0].To)
	assert.True(t, role.CostHistory[0].DailyCost.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, planning.MustDay("2024-07-01"), role.CostHistory[1].From)
	assert.True(t, role.CostHistory[1].To.IsZero())

	// The resolver sees the change on the boundary
	resolver := planning.NewHistoryResolver([]planning.Role{role})
	assert.True(t, resolver.DailyCost("role-1", planning.MustDay("2024-06-30")).Equal(decimal.NewFromInt(300)))
	assert.True(t, resolver.DailyCost("role-1", planning.MustDay("2024-07-01")).Equal(decimal.NewFromInt(350)))
}

func TestSaveAllocation_ReplacesRows(t *testing.T) {
	// GIVEN: an allocation saved with two days
	// WHEN: saving a new allocation with one different day
	// THEN: the old rows are gone, not merged

	store := newTestStore(t)
	ctx := context.Background()

	first := planning.NewAllocation()
	first.Set(planning.MustDay("2024-03-04"), 80)
	first.Set(planning.MustDay("2024-03-05"), 50)
	require.NoError(t, store.SaveAllocation(ctx, "a-1", first))

	second := planning.NewAllocation()
	second.Set(planning.MustDay("2024-04-01"), 100)
	require.NoError(t, store.SaveAllocation(ctx, "a-1", second))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	got := snap.AllocationFor("a-1")
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Len())
	_, ok := got.Get(planning.MustDay("2024-03-04"))
	assert.False(t, ok)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, planning.Client{ID: "cl-1", Name: "Acme"}))
	require.NoError(t, store.Reset(ctx))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Assignments)
}

func TestSaveResource_NullableLastDay(t *testing.T) {
	// GIVEN: a resigned resource with a last day
	// WHEN: round-tripping
	// THEN: the date survives, and clearing it goes back to NULL

	store := newTestStore(t)
	ctx := context.Background()

	r := planning.Resource{
		ID: "r-1", Name: "Marco", Location: "Rome", RoleID: "role-1",
		HireDate:      planning.MustDay("2024-01-08"),
		LastDayOfWork: planning.MustDay("2024-06-28"),
		Resigned:      true, MaxStaffingPercentage: 100,
	}
	require.NoError(t, store.SaveResource(ctx, r))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	got := snap.Resources["r-1"]
	assert.Equal(t, planning.MustDay("2024-06-28"), got.LastDayOfWork)
	assert.True(t, got.Resigned)

	r.LastDayOfWork = planning.Day{}
	r.Resigned = false
	require.NoError(t, store.SaveResource(ctx, r))

	snap, err = store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Resources["r-1"].LastDayOfWork.IsZero())
}
