/*
Package sqlite provides the SQLite-backed snapshot repository.

PURPOSE:
  Persists the staffing data the engine aggregates over - resources,
  roles and their cost history, projects, clients, contracts,
  assignments, per-day allocations and the company calendar - and loads
  it back as one immutable planning.Snapshot per request.

KEY TABLES:
  resources:          staffable people (hire date, location, role)
  role_cost_history:  SCD2 daily-cost rows, never edited in place
  projects/clients/contracts: grouping entities
  allocations:        sparse (assignment, day) -> percentage rows
  calendar_events:    holidays and closures

COST HISTORY WRITES:
  SetRoleCost enforces the SCD2 invariant at write time: it closes the
  open record (valid_to = day before the change) and inserts the new
  open record. Past rows are never updated.

DATE STORAGE:
  All dates are canonical ISO strings (2006-01-02); NULL means an open
  bound (no resignation, no project end, open cost record). Decimals are
  stored as TEXT to avoid float drift.

WAL MODE:
  SQLite is opened with WAL so dashboard reads do not block seeding.

USAGE:
  store, err := sqlite.New("./data/staffing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  snap, err := store.LoadSnapshot(ctx)

SEE ALSO:
  - planning/types.go: Snapshot definition
  - api/scenarios.go: demo datasets seeded through this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/planning"
)

// Store is the SQLite snapshot repository.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) the database at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		horizontal TEXT NOT NULL DEFAULT '',
		role_id TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		last_day_of_work TEXT,
		max_staffing_pct INTEGER NOT NULL DEFAULT 100,
		resigned INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS roles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	-- SCD2: one row per validity window, valid_to NULL = open record.
	CREATE TABLE IF NOT EXISTS role_cost_history (
		role_id TEXT NOT NULL,
		daily_cost TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		PRIMARY KEY (role_id, valid_from)
	);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		wbs_code TEXT NOT NULL DEFAULT '',
		ceiling TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client_id TEXT NOT NULL,
		contract_id TEXT,
		start_date TEXT,
		end_date TEXT,
		budget TEXT NOT NULL DEFAULT '0',
		realization_pct INTEGER NOT NULL DEFAULT 100,
		status TEXT NOT NULL DEFAULT 'active'
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL,
		project_id TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_resource
		ON assignments(resource_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_project
		ON assignments(project_id);

	CREATE TABLE IF NOT EXISTS allocations (
		assignment_id TEXT NOT NULL,
		day TEXT NOT NULL,
		percentage INTEGER NOT NULL,
		PRIMARY KEY (assignment_id, day)
	);

	CREATE TABLE IF NOT EXISTS calendar_events (
		date TEXT NOT NULL,
		event_type TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, event_type, location)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset wipes all tables. Used when loading a demo scenario.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"resources", "roles", "role_cost_history", "clients",
		"contracts", "projects", "assignments", "allocations",
		"calendar_events",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// WRITES - Seeding and administration
// =============================================================================

func nullableDay(d planning.Day) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// SaveResource upserts a resource.
func (s *Store) SaveResource(ctx context.Context, r planning.Resource) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO resources
		(id, name, location, horizontal, role_id, hire_date, last_day_of_work, max_staffing_pct, resigned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), r.Name, r.Location, r.Horizontal, string(r.RoleID),
		r.HireDate.String(), nullableDay(r.LastDayOfWork),
		r.MaxStaffingPercentage, r.Resigned)
	return err
}

// SaveRole upserts a role and replaces its cost history rows.
// Use SetRoleCost for the normal rate-change flow.
func (s *Store) SaveRole(ctx context.Context, r planning.Role) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO roles (id, name) VALUES (?, ?)`,
		string(r.ID), r.Name); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM role_cost_history WHERE role_id = ?`, string(r.ID)); err != nil {
		return err
	}
	for _, rec := range r.CostHistory {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO role_cost_history (role_id, daily_cost, valid_from, valid_to)
			VALUES (?, ?, ?, ?)`,
			string(r.ID), rec.DailyCost.String(), rec.From.String(),
			nullableDay(rec.To)); err != nil {
			return err
		}
	}
	return nil
}

// SetRoleCost records a rate change effective on the given day: the open
// record is closed at the day before, a new open record is inserted.
// History rows are never edited in place.
func (s *Store) SetRoleCost(ctx context.Context, roleID planning.RoleID, dailyCost decimal.Decimal, effective planning.Day) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE role_cost_history SET valid_to = ?
		WHERE role_id = ? AND valid_to IS NULL`,
		effective.AddDays(-1).String(), string(roleID)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO role_cost_history (role_id, daily_cost, valid_from, valid_to)
		VALUES (?, ?, ?, NULL)`,
		string(roleID), dailyCost.String(), effective.String()); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveClient upserts a client.
func (s *Store) SaveClient(ctx context.Context, c planning.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO clients (id, name) VALUES (?, ?)`,
		string(c.ID), c.Name)
	return err
}

// SaveContract upserts a contract.
func (s *Store) SaveContract(ctx context.Context, c planning.Contract) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO contracts (id, name, wbs_code, ceiling) VALUES (?, ?, ?, ?)`,
		string(c.ID), c.Name, c.WBSCode, c.Ceiling.String())
	return err
}

// SaveProject upserts a project.
func (s *Store) SaveProject(ctx context.Context, p planning.Project) error {
	var contractID any
	if p.ContractID != "" {
		contractID = string(p.ContractID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projects
		(id, name, client_id, contract_id, start_date, end_date, budget, realization_pct, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Name, string(p.ClientID), contractID,
		nullableDay(p.StartDate), nullableDay(p.EndDate),
		p.Budget.String(), p.RealizationPercentage, p.Status)
	return err
}

// SaveAssignment upserts an assignment.
func (s *Store) SaveAssignment(ctx context.Context, a planning.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assignments (id, resource_id, project_id) VALUES (?, ?, ?)`,
		string(a.ID), string(a.ResourceID), string(a.ProjectID))
	return err
}

// SaveAllocation replaces the assignment's allocation rows.
func (s *Store) SaveAllocation(ctx context.Context, id planning.AssignmentID, a *planning.Allocation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM allocations WHERE assignment_id = ?`, string(id)); err != nil {
		return err
	}
	for _, d := range a.Days() {
		pct, _ := a.Get(d)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO allocations (assignment_id, day, percentage) VALUES (?, ?, ?)`,
			string(id), d.String(), pct); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveCalendarEvent upserts a calendar event.
func (s *Store) SaveCalendarEvent(ctx context.Context, e planning.CalendarEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO calendar_events (date, event_type, location) VALUES (?, ?, ?)`,
		e.Date.String(), string(e.Type), e.Location)
	return err
}

// =============================================================================
// LOAD SNAPSHOT
// =============================================================================

// LoadSnapshot reads all tables and indexes them into one immutable
// snapshot for the engine.
func (s *Store) LoadSnapshot(ctx context.Context) (*planning.Snapshot, error) {
	resources, err := s.loadResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	roles, err := s.loadRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	clients, err := s.loadClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	contracts, err := s.loadContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	projects, err := s.loadProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	assignments, err := s.loadAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	allocations, err := s.loadAllocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load allocations: %w", err)
	}
	events, err := s.loadCalendarEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}

	return planning.NewSnapshot(resources, roles, projects, clients, contracts,
		assignments, allocations, planning.NewCalendar(events)), nil
}

func parseNullableDay(v sql.NullString) (planning.Day, error) {
	if !v.Valid {
		return planning.Day{}, nil
	}
	return planning.ParseDay(v.String)
}

func (s *Store) loadResources(ctx context.Context) ([]planning.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, horizontal, role_id, hire_date,
		       last_day_of_work, max_staffing_pct, resigned
		FROM resources`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.Resource
	for rows.Next() {
		var r planning.Resource
		var id, roleID, hireDate string
		var lastDay sql.NullString
		if err := rows.Scan(&id, &r.Name, &r.Location, &r.Horizontal, &roleID,
			&hireDate, &lastDay, &r.MaxStaffingPercentage, &r.Resigned); err != nil {
			return nil, err
		}
		r.ID = planning.ResourceID(id)
		r.RoleID = planning.RoleID(roleID)
		if r.HireDate, err = planning.ParseDay(hireDate); err != nil {
			return nil, err
		}
		if r.LastDayOfWork, err = parseNullableDay(lastDay); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadRoles(ctx context.Context) ([]planning.Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM roles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[planning.RoleID]*planning.Role)
	var order []planning.RoleID
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		rid := planning.RoleID(id)
		byID[rid] = &planning.Role{ID: rid, Name: name}
		order = append(order, rid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hrows, err := s.db.QueryContext(ctx, `
		SELECT role_id, daily_cost, valid_from, valid_to
		FROM role_cost_history ORDER BY role_id, valid_from`)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()

	for hrows.Next() {
		var roleID, cost, from string
		var to sql.NullString
		if err := hrows.Scan(&roleID, &cost, &from, &to); err != nil {
			return nil, err
		}
		role, ok := byID[planning.RoleID(roleID)]
		if !ok {
			continue // orphan history row
		}
		rec := planning.CostRecord{}
		if rec.DailyCost, err = decimal.NewFromString(cost); err != nil {
			return nil, err
		}
		if rec.From, err = planning.ParseDay(from); err != nil {
			return nil, err
		}
		if rec.To, err = parseNullableDay(to); err != nil {
			return nil, err
		}
		role.CostHistory = append(role.CostHistory, rec)
	}
	if err := hrows.Err(); err != nil {
		return nil, err
	}

	out := make([]planning.Role, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (s *Store) loadClients(ctx context.Context) ([]planning.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM clients`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.Client
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, planning.Client{ID: planning.ClientID(id), Name: name})
	}
	return out, rows.Err()
}

func (s *Store) loadContracts(ctx context.Context) ([]planning.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, wbs_code, ceiling FROM contracts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.Contract
	for rows.Next() {
		var c planning.Contract
		var id, ceiling string
		if err := rows.Scan(&id, &c.Name, &c.WBSCode, &ceiling); err != nil {
			return nil, err
		}
		c.ID = planning.ContractID(id)
		if c.Ceiling, err = decimal.NewFromString(ceiling); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadProjects(ctx context.Context) ([]planning.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, client_id, contract_id, start_date, end_date,
		       budget, realization_pct, status
		FROM projects`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.Project
	for rows.Next() {
		var p planning.Project
		var id, clientID, budget string
		var contractID, start, end sql.NullString
		if err := rows.Scan(&id, &p.Name, &clientID, &contractID, &start, &end,
			&budget, &p.RealizationPercentage, &p.Status); err != nil {
			return nil, err
		}
		p.ID = planning.ProjectID(id)
		p.ClientID = planning.ClientID(clientID)
		if contractID.Valid {
			p.ContractID = planning.ContractID(contractID.String)
		}
		if p.StartDate, err = parseNullableDay(start); err != nil {
			return nil, err
		}
		if p.EndDate, err = parseNullableDay(end); err != nil {
			return nil, err
		}
		if p.Budget, err = decimal.NewFromString(budget); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadAssignments(ctx context.Context) ([]planning.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, resource_id, project_id FROM assignments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.Assignment
	for rows.Next() {
		var id, resourceID, projectID string
		if err := rows.Scan(&id, &resourceID, &projectID); err != nil {
			return nil, err
		}
		out = append(out, planning.Assignment{
			ID:         planning.AssignmentID(id),
			ResourceID: planning.ResourceID(resourceID),
			ProjectID:  planning.ProjectID(projectID),
		})
	}
	return out, rows.Err()
}

func (s *Store) loadAllocations(ctx context.Context) (map[planning.AssignmentID]*planning.Allocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT assignment_id, day, percentage FROM allocations ORDER BY assignment_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[planning.AssignmentID]*planning.Allocation)
	for rows.Next() {
		var id, dayStr string
		var pct int
		if err := rows.Scan(&id, &dayStr, &pct); err != nil {
			return nil, err
		}
		d, err := planning.ParseDay(dayStr)
		if err != nil {
			return nil, err
		}
		aid := planning.AssignmentID(id)
		a, ok := out[aid]
		if !ok {
			a = planning.NewAllocation()
			out[aid] = a
		}
		a.Set(d, pct)
	}
	return out, rows.Err()
}

func (s *Store) loadCalendarEvents(ctx context.Context) ([]planning.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, event_type, location FROM calendar_events`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planning.CalendarEvent
	for rows.Next() {
		var dayStr, eventType, location string
		if err := rows.Scan(&dayStr, &eventType, &location); err != nil {
			return nil, err
		}
		d, err := planning.ParseDay(dayStr)
		if err != nil {
			return nil, err
		}
		out = append(out, planning.CalendarEvent{
			Date:     d,
			Type:     planning.EventType(eventType),
			Location: location,
		})
	}
	return out, rows.Err()
}
