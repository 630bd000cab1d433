// Package org implements the departments, labs, and lab_memberships accessors
// using PostgreSQL.
package org

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/emslab/labadmin/internal/adapter/postgres"
	"github.com/emslab/labadmin/internal/domain"
)

// Repo provides organizational structure persistence backed by PostgreSQL.
type Repo struct {
	db *postgres.Gateway
}

// New creates a new org repository.
func New(db *postgres.Gateway) *Repo {
	return &Repo{db: db}
}

// Departments returns all departments with their immediate parent and manager
// names resolved. Only one parent level is resolved, so a cyclic parent chain
// cannot hang the query.
func (r *Repo) Departments(ctx context.Context) ([]domain.Department, error) {
	var deps []domain.Department
	err := pgxscan.Select(ctx, r.db, &deps,
		`SELECT d.id, d.name, d.parent_id, d.manager_id, d.created_at,
		        p.name AS parent_name, u.full_name AS manager_name
		 FROM departments d
		 LEFT JOIN departments p ON d.parent_id = p.id
		 LEFT JOIN users u ON d.manager_id = u.id
		 ORDER BY d.name`)
	if err != nil {
		return nil, postgres.MapError(err, "department", "list")
	}
	return deps, nil
}

// CreateDepartment inserts a department and returns its id. Provisioning only.
func (r *Repo) CreateDepartment(ctx context.Context, d *domain.Department) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.Scalar(ctx, &id,
		`INSERT INTO departments (name, parent_id, manager_id)
		 VALUES ($1, $2, $3) RETURNING id`,
		d.Name, d.ParentID, d.ManagerID)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "department", d.Name)
	}
	return id, nil
}

// Labs returns all labs with department and manager names resolved.
func (r *Repo) Labs(ctx context.Context) ([]domain.Lab, error) {
	var labs []domain.Lab
	err := pgxscan.Select(ctx, r.db, &labs,
		`SELECT l.id, l.name, l.code, l.department_id, l.manager_id, l.created_at,
		        d.name AS department_name, u.full_name AS manager_name
		 FROM labs l
		 LEFT JOIN departments d ON l.department_id = d.id
		 LEFT JOIN users u ON l.manager_id = u.id
		 ORDER BY l.name`)
	if err != nil {
		return nil, postgres.MapError(err, "lab", "list")
	}
	return labs, nil
}

// CreateLab inserts a lab and returns its id. Provisioning only.
func (r *Repo) CreateLab(ctx context.Context, l *domain.Lab) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.Scalar(ctx, &id,
		`INSERT INTO labs (name, code, department_id, manager_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		l.Name, l.Code, l.DepartmentID, l.ManagerID)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "lab", l.Code)
	}
	return id, nil
}

// Members returns the users holding an active membership in the lab.
func (r *Repo) Members(ctx context.Context, labID uuid.UUID) ([]domain.LabMember, error) {
	var members []domain.LabMember
	err := pgxscan.Select(ctx, r.db, &members,
		`SELECT u.id AS user_id, u.username, u.full_name, u.email,
		        lm.role_in_lab, lm.active
		 FROM lab_memberships lm
		 JOIN users u ON lm.user_id = u.id
		 WHERE lm.lab_id = $1 AND lm.active = TRUE
		 ORDER BY u.full_name`, labID)
	if err != nil {
		return nil, postgres.MapError(err, "lab_membership", labID.String())
	}
	return members, nil
}

// Membership returns the membership row for the pair, active or not. Inactive
// rows are visible here so callers can snapshot the state a removal replaced.
func (r *Repo) Membership(ctx context.Context, labID, userID uuid.UUID) (*domain.LabMembership, error) {
	var m domain.LabMembership
	err := pgxscan.Get(ctx, r.db, &m,
		`SELECT lab_id, user_id, role_in_lab, active
		 FROM lab_memberships
		 WHERE lab_id = $1 AND user_id = $2`, labID, userID)
	if err != nil {
		return nil, postgres.MapError(err, "lab_membership", userID.String())
	}
	return &m, nil
}

// AddMember adds a user to a lab. Re-adding an existing (even soft-deleted)
// membership updates role_in_lab and reactivates the row instead of
// duplicating, so add/remove/add cycles leave exactly one row.
func (r *Repo) AddMember(ctx context.Context, labID, userID uuid.UUID, roleInLab string) (int64, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO lab_memberships (lab_id, user_id, role_in_lab, active)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (lab_id, user_id)
		 DO UPDATE SET role_in_lab = EXCLUDED.role_in_lab, active = TRUE`,
		labID, userID, roleInLab)
	if err != nil {
		return 0, postgres.MapError(err, "lab_membership", userID.String())
	}
	return n, nil
}

// RemoveMember flips the membership to inactive. The row is kept; membership
// history is retained, unlike role grants.
func (r *Repo) RemoveMember(ctx context.Context, labID, userID uuid.UUID) (int64, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE lab_memberships SET active = FALSE
		 WHERE lab_id = $1 AND user_id = $2`, labID, userID)
	if err != nil {
		return 0, postgres.MapError(err, "lab_membership", userID.String())
	}
	return n, nil
}

// MembershipsOf returns the user's active memberships with lab and department
// names resolved.
func (r *Repo) MembershipsOf(ctx context.Context, userID uuid.UUID) ([]domain.LabMembership, error) {
	var ms []domain.LabMembership
	err := pgxscan.Select(ctx, r.db, &ms,
		`SELECT lm.lab_id, lm.user_id, lm.role_in_lab, lm.active,
		        l.name AS lab_name, l.code AS lab_code, d.name AS department_name
		 FROM lab_memberships lm
		 JOIN labs l ON lm.lab_id = l.id
		 JOIN departments d ON l.department_id = d.id
		 WHERE lm.user_id = $1 AND lm.active = TRUE
		 ORDER BY l.name`, userID)
	if err != nil {
		return nil, postgres.MapError(err, "lab_membership", userID.String())
	}
	return ms, nil
}

// IsMember reports whether the user holds an active membership in the lab.
func (r *Repo) IsMember(ctx context.Context, userID, labID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Scalar(ctx, &count,
		`SELECT COUNT(*) FROM lab_memberships
		 WHERE user_id = $1 AND lab_id = $2 AND active = TRUE`,
		userID, labID)
	if err != nil {
		return false, postgres.MapError(err, "lab_membership", userID.String())
	}
	return count > 0, nil
}
