// Package role implements the roles and user_roles accessors using PostgreSQL.
package role

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/emslab/labadmin/internal/adapter/postgres"
	"github.com/emslab/labadmin/internal/domain"
)

// Repo provides role definitions and role grants backed by PostgreSQL.
type Repo struct {
	db *postgres.Gateway
}

// New creates a new role repository.
func New(db *postgres.Gateway) *Repo {
	return &Repo{db: db}
}

// List returns all role definitions in creation order.
func (r *Repo) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := pgxscan.Select(ctx, r.db, &roles,
		`SELECT id, code, name, created_at FROM roles ORDER BY created_at`)
	if err != nil {
		return nil, postgres.MapError(err, "role", "list")
	}
	return roles, nil
}

// GetByCode returns the role with the exact machine code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	err := pgxscan.Get(ctx, r.db, &role,
		`SELECT id, code, name, created_at FROM roles WHERE code = $1`, code)
	if err != nil {
		return nil, postgres.MapError(err, "role", code)
	}
	return &role, nil
}

// Ensure inserts a role definition if its code is not present yet. Used by
// provisioning only; the core never mutates roles at runtime.
func (r *Repo) Ensure(ctx context.Context, code, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO roles (code, name) VALUES ($1, $2)
		 ON CONFLICT (code) DO NOTHING`, code, name)
	if err != nil {
		return postgres.MapError(err, "role", code)
	}
	return nil
}

// RolesOfUser returns the roles held by a user together with grant metadata.
func (r *Repo) RolesOfUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRole, error) {
	var roles []domain.UserRole
	err := pgxscan.Select(ctx, r.db, &roles,
		`SELECT r.id, r.code, r.name, r.created_at, ur.assigned_by, ur.assigned_at
		 FROM user_roles ur
		 JOIN roles r ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY ur.assigned_at`, userID)
	if err != nil {
		return nil, postgres.MapError(err, "user_role", userID.String())
	}
	return roles, nil
}

// Assign grants a role to a user. Granting an already-held role updates
// assigned_by and re-stamps assigned_at instead of duplicating or failing, so
// the operation is idempotent under retry.
func (r *Repo) Assign(ctx context.Context, userID, roleID, assignedBy uuid.UUID) (int64, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, assigned_by)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, role_id)
		 DO UPDATE SET assigned_by = EXCLUDED.assigned_by, assigned_at = now()`,
		userID, roleID, assignedBy)
	if err != nil {
		return 0, postgres.MapError(err, "user_role", userID.String())
	}
	return n, nil
}

// Revoke deletes the grant row. Unlike lab memberships, grants keep no
// history: revocation is physical.
func (r *Repo) Revoke(ctx context.Context, userID, roleID uuid.UUID) (int64, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID, roleID)
	if err != nil {
		return 0, postgres.MapError(err, "user_role", userID.String())
	}
	return n, nil
}

// HasRole reports whether the user holds a role whose code matches exactly.
func (r *Repo) HasRole(ctx context.Context, userID uuid.UUID, roleCode string) (bool, error) {
	var count int64
	err := r.db.Scalar(ctx, &count,
		`SELECT COUNT(*)
		 FROM user_roles ur
		 JOIN roles r ON ur.role_id = r.id
		 WHERE ur.user_id = $1 AND r.code = $2`,
		userID, roleCode)
	if err != nil {
		return false, postgres.MapError(err, "user_role", roleCode)
	}
	return count > 0, nil
}
