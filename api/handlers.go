/*
handlers.go - HTTP API handlers for the staffing engine

PURPOSE:
  Exposes the planning engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the pure engine functions.

ENDPOINTS:
  Listings:
    GET    /api/resources               List all resources
    GET    /api/projects                List all projects
    GET    /api/roles/{id}/cost         Daily cost on a date

  Reports:
    POST   /api/reports/aggregate       Person-days + cost over a window
    POST   /api/reports/rollup          Grouped rollup tree
    GET    /api/reports/forecast        Monthly actual/projected load
    GET    /api/reports/utilization     Per-resource utilization table

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Load a fresh snapshot from the store
  3. Call engine logic (aggregate, rollup, forecast)
  4. Serialize response

  Every report loads its own snapshot. The engine is pure, so there is
  no cache to invalidate and concurrent reports never interfere.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/warp/staffing-engine/planning"
	"github.com/warp/staffing-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// snapshot loads a fresh snapshot and its cost resolver.
func (h *Handler) snapshot(r *http.Request) (*planning.Snapshot, planning.CostResolver, error) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		return nil, nil, err
	}
	roles := make([]planning.Role, 0, len(snap.Roles))
	for _, role := range snap.Roles {
		roles = append(roles, role)
	}
	return snap, planning.NewHistoryResolver(roles), nil
}

// =============================================================================
// LISTING HANDLERS
// =============================================================================

// ListResources returns all resources.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	dtos := make([]ResourceDTO, 0, len(snap.Resources))
	for _, res := range snap.Resources {
		dtos = append(dtos, toResourceDTO(res))
	}
	sortByID(dtos, func(d ResourceDTO) string { return d.ID })

	writeJSON(w, http.StatusOK, dtos)
}

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	dtos := make([]ProjectDTO, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		dtos = append(dtos, toProjectDTO(p))
	}
	sortByID(dtos, func(d ProjectDTO) string { return d.ID })

	writeJSON(w, http.StatusOK, dtos)
}

// GetRoleCost returns a role's daily cost on a date.
// GET /api/roles/{id}/cost?date=2024-05-06 (default: today)
func (h *Handler) GetRoleCost(w http.ResponseWriter, r *http.Request) {
	roleID := planning.RoleID(chi.URLParam(r, "id"))

	date := planning.DayOf(time.Now())
	if q := r.URL.Query().Get("date"); q != "" {
		var err error
		if date, err = planning.ParseDay(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	snap, costs, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}
	if _, ok := snap.Roles[roleID]; !ok {
		writeError(w, http.StatusNotFound, "Role not found", nil)
		return
	}

	cost, _ := costs.DailyCost(roleID, date).Float64()
	writeJSON(w, http.StatusOK, RoleCostDTO{
		RoleID:    string(roleID),
		Date:      date.String(),
		DailyCost: cost,
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// Aggregate returns person-days and cost for one assignment or one
// resource over a window.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	window, err := parseWindow(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window (use YYYY-MM-DD from/to)", err)
		return
	}
	if (req.AssignmentID == "") == (req.ResourceID == "") {
		writeError(w, http.StatusBadRequest, "Set exactly one of assignment_id or resource_id", nil)
		return
	}

	snap, costs, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	var agg planning.AggregateResult
	if req.AssignmentID != "" {
		a, found := findAssignment(snap, planning.AssignmentID(req.AssignmentID))
		if !found {
			writeError(w, http.StatusNotFound, "Assignment not found", nil)
			return
		}
		agg, _ = snap.AggregateAssignment(a, window, costs)
	} else {
		if _, ok := snap.Resources[planning.ResourceID(req.ResourceID)]; !ok {
			writeError(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		agg = snap.AggregateResource(planning.ResourceID(req.ResourceID), window, costs)
	}

	personDays, _ := agg.PersonDays.Float64()
	cost, _ := agg.Cost.Float64()
	writeJSON(w, http.StatusOK, AggregateDTO{
		PersonDays: personDays,
		Cost:       cost,
		From:       req.From,
		To:         req.To,
	})
}

// RollupReport returns the grouped rollup tree.
func (h *Handler) RollupReport(w http.ResponseWriter, r *http.Request) {
	var req RollupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	window, err := parseWindow(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window (use YYYY-MM-DD from/to)", err)
		return
	}

	dims := make([]planning.Dimension, len(req.Dimensions))
	for i, d := range req.Dimensions {
		dims[i] = planning.Dimension(d)
	}

	snap, costs, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	root, err := planning.Rollup(planning.RollupInput{
		Snapshot:   snap,
		Dimensions: dims,
		Window:     window,
		Unit:       planning.Unit(req.Unit),
		Costs:      costs,
	})
	if err != nil {
		if errors.Is(err, planning.ErrUnknownDimension) || errors.Is(err, planning.ErrUnknownUnit) {
			writeError(w, http.StatusBadRequest, "Invalid rollup request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Rollup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toRollupNodeDTO(root))
}

// Forecast returns the actual/projected load of one assignment for one
// month.
// GET /api/reports/forecast?assignment_id=a-1&month=2024-07&now=2024-05-15
// now defaults to today.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	assignmentID := r.URL.Query().Get("assignment_id")
	if assignmentID == "" {
		writeError(w, http.StatusBadRequest, "assignment_id is required", nil)
		return
	}
	target, err := planning.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	now := planning.DayOf(time.Now())
	if q := r.URL.Query().Get("now"); q != "" {
		if now, err = planning.ParseDay(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid now format (use YYYY-MM-DD)", err)
			return
		}
	}

	snap, _, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}
	a, found := findAssignment(snap, planning.AssignmentID(assignmentID))
	if !found {
		writeError(w, http.StatusNotFound, "Assignment not found", nil)
		return
	}

	result := planning.ProjectMonth(planning.ForecastInput{
		Snapshot:   snap,
		Assignment: a,
		Target:     target,
		Now:        now,
	})

	personDays, _ := result.PersonDays.Float64()
	writeJSON(w, http.StatusOK, ForecastDTO{
		AssignmentID: assignmentID,
		Month:        target.String(),
		PersonDays:   personDays,
		State:        string(result.State),
	})
}

// Utilization returns the per-resource utilization table.
// GET /api/reports/utilization?from=2024-05-01&to=2024-05-31
func (h *Handler) Utilization(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid window (use YYYY-MM-DD from/to)", err)
		return
	}

	snap, _, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	rows := planning.ResourceUtilization(snap, window)
	dtos := make([]UtilizationDTO, len(rows))
	for i, row := range rows {
		personDays, _ := row.PersonDays.Float64()
		utilization, _ := row.Utilization.Float64()
		dtos[i] = UtilizationDTO{
			ResourceID:  string(row.ResourceID),
			Name:        row.Name,
			PersonDays:  personDays,
			WorkingDays: row.WorkingDays,
			Utilization: utilization,
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func findAssignment(s *planning.Snapshot, id planning.AssignmentID) (planning.Assignment, bool) {
	for _, a := range s.Assignments {
		if a.ID == id {
			return a, true
		}
	}
	return planning.Assignment{}, false
}

func parseWindow(from, to string) (planning.Period, error) {
	start, err := planning.ParseDay(from)
	if err != nil {
		return planning.Period{}, err
	}
	end, err := planning.ParseDay(to)
	if err != nil {
		return planning.Period{}, err
	}
	return planning.Period{Start: start, End: end}, nil
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
