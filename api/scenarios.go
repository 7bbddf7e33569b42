/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	staffing data for testing and demos. Each scenario creates roles,
	resources, clients, projects, assignments and allocations that
	demonstrate specific engine features.

AVAILABLE SCENARIOS:

	consultancy-spring: Two offices, two clients, May-June allocations
	rate-change:        Mid-year daily-cost change (history preserved)
	ramp-down:          Resignation + project end, forecast edge cases

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create roles with cost history
 3. Create clients, contracts, projects
 4. Create resources and assignments
 5. Fill allocations over working days

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "consultancy-spring"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: report handlers the scenarios feed
  - store/sqlite/sqlite.go: seed methods
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "consultancy-spring",
		Name:        "Consultancy Spring",
		Description: "Milan and Rome consultants on two client projects, May-June allocations",
	},
	{
		ID:          "rate-change",
		Name:        "Mid-Year Rate Change",
		Description: "Role daily cost raised on July 1st; past months keep the old rate",
	},
	{
		ID:          "ramp-down",
		Name:        "Ramp-Down",
		Description: "Resigning consultant and a project ending mid-year, for forecast edge cases",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "consultancy-spring":
		err = h.loadConsultancySpringScenario(ctx)
	case "rate-change":
		err = h.loadRateChangeScenario(ctx)
	case "ramp-down":
		err = h.loadRampDownScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// fillWeekdays sets the percentage on every Monday-Friday in [from, to].
// Holidays are left in on purpose: the engine skips them at read time.
func fillWeekdays(a *planning.Allocation, from, to planning.Day, pct int) {
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if !d.IsWeekend() {
			a.Set(d, pct)
		}
	}
}

func (h *Handler) saveAllocationWeekdays(ctx context.Context, id planning.AssignmentID, from, to planning.Day, pct int) error {
	a := planning.NewAllocation()
	fillWeekdays(a, from, to, pct)
	return h.Store.SaveAllocation(ctx, id, a)
}

func (h *Handler) loadConsultancySpringScenario(ctx context.Context) error {
	// Roles with flat cost history
	roles := []planning.Role{
		{
			ID:   "role-senior",
			Name: "Senior Consultant",
			CostHistory: []planning.CostRecord{
				{DailyCost: decimal.NewFromInt(450), From: planning.MustDay("2023-01-01")},
			},
		},
		{
			ID:   "role-junior",
			Name: "Junior Consultant",
			CostHistory: []planning.CostRecord{
				{DailyCost: decimal.NewFromInt(250), From: planning.MustDay("2023-01-01")},
			},
		},
	}
	for _, role := range roles {
		if err := h.Store.SaveRole(ctx, role); err != nil {
			return err
		}
	}

	// Clients and contracts
	if err := h.Store.SaveClient(ctx, planning.Client{ID: "cl-acme", Name: "Acme Retail"}); err != nil {
		return err
	}
	if err := h.Store.SaveClient(ctx, planning.Client{ID: "cl-beta", Name: "Beta Bank"}); err != nil {
		return err
	}
	if err := h.Store.SaveContract(ctx, planning.Contract{
		ID: "k-acme-1", Name: "Acme Frame Contract", WBSCode: "WBS-ACME-001",
		Ceiling: decimal.NewFromInt(250000),
	}); err != nil {
		return err
	}

	// Projects
	projects := []planning.Project{
		{
			ID: "p-shop", Name: "Shop Replatform", ClientID: "cl-acme", ContractID: "k-acme-1",
			StartDate: planning.MustDay("2024-03-01"), EndDate: planning.MustDay("2024-12-31"),
			Budget: decimal.NewFromInt(180000), RealizationPercentage: 100, Status: "active",
		},
		{
			ID: "p-risk", Name: "Risk Dashboard", ClientID: "cl-beta",
			StartDate: planning.MustDay("2024-01-15"),
			Budget:    decimal.NewFromInt(90000), RealizationPercentage: 80, Status: "active",
		},
	}
	for _, p := range projects {
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	// Resources
	resources := []planning.Resource{
		{
			ID: "r-anna", Name: "Anna Ferri", Location: "Milan", Horizontal: "Engineering",
			RoleID: "role-senior", HireDate: planning.MustDay("2022-09-01"),
			MaxStaffingPercentage: 100,
		},
		{
			ID: "r-marco", Name: "Marco Leone", Location: "Rome", Horizontal: "Engineering",
			RoleID: "role-junior", HireDate: planning.MustDay("2024-05-13"),
			MaxStaffingPercentage: 100,
		},
	}
	for _, res := range resources {
		if err := h.Store.SaveResource(ctx, res); err != nil {
			return err
		}
	}

	// Assignments
	assignments := []planning.Assignment{
		{ID: "a-anna-shop", ResourceID: "r-anna", ProjectID: "p-shop"},
		{ID: "a-anna-risk", ResourceID: "r-anna", ProjectID: "p-risk"},
		{ID: "a-marco-shop", ResourceID: "r-marco", ProjectID: "p-shop"},
	}
	for _, a := range assignments {
		if err := h.Store.SaveAssignment(ctx, a); err != nil {
			return err
		}
	}

	// Allocations: Anna splits 60/40, Marco full-time from his hire date.
	// Marco's pre-hire days are filled too; the engine clips them out.
	may1 := planning.MustDay("2024-05-01")
	jun30 := planning.MustDay("2024-06-30")
	if err := h.saveAllocationWeekdays(ctx, "a-anna-shop", may1, jun30, 60); err != nil {
		return err
	}
	if err := h.saveAllocationWeekdays(ctx, "a-anna-risk", may1, jun30, 40); err != nil {
		return err
	}
	if err := h.saveAllocationWeekdays(ctx, "a-marco-shop", may1, jun30, 100); err != nil {
		return err
	}

	// Calendar: Labour Day everywhere, one Milan-only closure.
	events := []planning.CalendarEvent{
		{Date: planning.MustDay("2024-05-01"), Type: planning.EventNationalHoliday},
		{Date: planning.MustDay("2024-06-24"), Type: planning.EventLocalHoliday, Location: "Milan"},
	}
	for _, e := range events {
		if err := h.Store.SaveCalendarEvent(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) loadRateChangeScenario(ctx context.Context) error {
	// Start from the base staffing data
	if err := h.loadConsultancySpringScenario(ctx); err != nil {
		return err
	}

	// Raise the senior rate on July 1st: the open record is closed at
	// June 30th, May/June aggregates keep costing 450.
	if err := h.Store.SetRoleCost(ctx, "role-senior",
		decimal.NewFromInt(520), planning.MustDay("2024-07-01")); err != nil {
		return err
	}

	// Extend Anna into July so the window straddles the change.
	jul1 := planning.MustDay("2024-07-01")
	jul31 := planning.MustDay("2024-07-31")
	a := planning.NewAllocation()
	fillWeekdays(a, planning.MustDay("2024-05-01"), planning.MustDay("2024-06-30"), 60)
	fillWeekdays(a, jul1, jul31, 60)
	return h.Store.SaveAllocation(ctx, "a-anna-shop", a)
}

func (h *Handler) loadRampDownScenario(ctx context.Context) error {
	if err := h.loadConsultancySpringScenario(ctx); err != nil {
		return err
	}

	// Marco resigns end of June: July forecasts go to NONE even though
	// his run rate is full-time.
	if err := h.Store.SaveResource(ctx, planning.Resource{
		ID: "r-marco", Name: "Marco Leone", Location: "Rome", Horizontal: "Engineering",
		RoleID: "role-junior", HireDate: planning.MustDay("2024-05-13"),
		LastDayOfWork: planning.MustDay("2024-06-28"), Resigned: true,
		MaxStaffingPercentage: 100,
	}); err != nil {
		return err
	}

	// Risk Dashboard ends July 31st: August forecasts go to NONE while
	// July still projects from the spring run rate.
	return h.Store.SaveProject(ctx, planning.Project{
		ID: "p-risk", Name: "Risk Dashboard", ClientID: "cl-beta",
		StartDate: planning.MustDay("2024-01-15"), EndDate: planning.MustDay("2024-07-31"),
		Budget: decimal.NewFromInt(90000), RealizationPercentage: 80, Status: "closing",
	})
}
