/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-based results from the external API contract:
  quantities cross the wire as float64, dates as ISO strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Listings:
    ResourceDTO, ProjectDTO

  Reports:
    AggregateRequest, AggregateDTO
    RollupRequest, RollupNodeDTO
    ForecastDTO, UtilizationDTO
    RoleCostDTO

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - planning/rollup.go: RollupNode source type
*/
package api

import (
	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ResourceDTO represents a staffable person in API responses.
type ResourceDTO struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Location              string `json:"location"`
	Horizontal            string `json:"horizontal,omitempty"`
	RoleID                string `json:"role_id"`
	HireDate              string `json:"hire_date"`
	LastDayOfWork         string `json:"last_day_of_work,omitempty"`
	MaxStaffingPercentage int    `json:"max_staffing_percentage"`
	Resigned              bool   `json:"resigned"`
}

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	ClientID              string  `json:"client_id"`
	ContractID            string  `json:"contract_id,omitempty"`
	StartDate             string  `json:"start_date,omitempty"`
	EndDate               string  `json:"end_date,omitempty"`
	Budget                float64 `json:"budget"`
	RealizationPercentage int     `json:"realization_percentage"`
	Status                string  `json:"status"`
}

// AggregateRequest asks for person-days and cost over a window.
// Exactly one of assignment_id or resource_id must be set.
type AggregateRequest struct {
	AssignmentID string `json:"assignment_id,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// AggregateDTO is an aggregation result.
type AggregateDTO struct {
	PersonDays float64 `json:"person_days"`
	Cost       float64 `json:"cost"`
	From       string  `json:"from"`
	To         string  `json:"to"`
}

// RollupRequest asks for a grouped rollup tree.
type RollupRequest struct {
	Dimensions []string `json:"dimensions"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Unit       string   `json:"unit,omitempty"` // days (default), fte, cost
}

// RollupNodeDTO is one node of the rollup tree.
type RollupNodeDTO struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Total    float64            `json:"total"`
	Monthly  map[string]float64 `json:"monthly"`
	Children []RollupNodeDTO    `json:"children,omitempty"`
}

// ForecastDTO is the projected or actual load for one month.
type ForecastDTO struct {
	AssignmentID string  `json:"assignment_id"`
	Month        string  `json:"month"`
	PersonDays   float64 `json:"person_days"`
	State        string  `json:"state"` // ACTUAL, PROJECTED, NONE
}

// UtilizationDTO is one row of the per-resource utilization table.
type UtilizationDTO struct {
	ResourceID  string  `json:"resource_id"`
	Name        string  `json:"name"`
	PersonDays  float64 `json:"person_days"`
	WorkingDays int     `json:"working_days"`
	Utilization float64 `json:"utilization"`
}

// RoleCostDTO is the daily cost of a role on a given date.
type RoleCostDTO struct {
	RoleID    string  `json:"role_id"`
	Date      string  `json:"date"`
	DailyCost float64 `json:"daily_cost"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func dayString(d planning.Day) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func toResourceDTO(r planning.Resource) ResourceDTO {
	return ResourceDTO{
		ID:                    string(r.ID),
		Name:                  r.Name,
		Location:              r.Location,
		Horizontal:            r.Horizontal,
		RoleID:                string(r.RoleID),
		HireDate:              r.HireDate.String(),
		LastDayOfWork:         dayString(r.LastDayOfWork),
		MaxStaffingPercentage: r.MaxStaffingPercentage,
		Resigned:              r.Resigned,
	}
}

func toProjectDTO(p planning.Project) ProjectDTO {
	budget, _ := p.Budget.Float64()
	return ProjectDTO{
		ID:                    string(p.ID),
		Name:                  p.Name,
		ClientID:              string(p.ClientID),
		ContractID:            string(p.ContractID),
		StartDate:             dayString(p.StartDate),
		EndDate:               dayString(p.EndDate),
		Budget:                budget,
		RealizationPercentage: p.RealizationPercentage,
		Status:                p.Status,
	}
}

func toRollupNodeDTO(n *planning.RollupNode) RollupNodeDTO {
	total, _ := n.Total.Float64()
	monthly := make(map[string]float64, len(n.Monthly))
	for k, v := range n.Monthly {
		monthly[k], _ = v.Float64()
	}
	dto := RollupNodeDTO{
		ID:      n.ID,
		Label:   n.Label,
		Total:   total,
		Monthly: monthly,
	}
	for _, c := range n.Children {
		dto.Children = append(dto.Children, toRollupNodeDTO(c))
	}
	return dto
}
