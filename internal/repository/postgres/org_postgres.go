package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// OrgPostgres reads the dependencias / unidades_academicas lookup tables.
type OrgPostgres struct {
	db *sql.DB
}

// NewOrgPostgres creates a new OrgPostgres repository.
func NewOrgPostgres(db *sql.DB) *OrgPostgres {
	return &OrgPostgres{db: db}
}

var _ repository.OrgRepository = (*OrgPostgres)(nil)

// ListActiveDepartments returns departments currently selectable on author forms.
func (r *OrgPostgres) ListActiveDepartments(ctx context.Context) ([]model.Department, error) {
	const q = `SELECT id, name, active FROM dependencias WHERE active ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Active); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// FindDepartment fetches a department by ID.
func (r *OrgPostgres) FindDepartment(ctx context.Context, id string) (*model.Department, error) {
	const q = `SELECT id, name, active FROM dependencias WHERE id = $1`
	var d model.Department
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Active); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindAcademicUnit fetches an academic unit by ID.
func (r *OrgPostgres) FindAcademicUnit(ctx context.Context, id string) (*model.AcademicUnit, error) {
	const q = `SELECT id, department_id, name, active FROM unidades_academicas WHERE id = $1`
	var u model.AcademicUnit
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.DepartmentID, &u.Name, &u.Active); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUnitsByDepartment returns a department's active academic units.
func (r *OrgPostgres) ListUnitsByDepartment(ctx context.Context, departmentID string) ([]model.AcademicUnit, error) {
	const q = `SELECT id, department_id, name, active FROM unidades_academicas WHERE department_id = $1 AND active ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AcademicUnit, 0)
	for rows.Next() {
		var u model.AcademicUnit
		if err := rows.Scan(&u.ID, &u.DepartmentID, &u.Name, &u.Active); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
