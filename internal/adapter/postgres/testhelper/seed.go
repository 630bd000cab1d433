package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emslab/labadmin/internal/auth"
	"github.com/emslab/labadmin/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an active user whose password is the given plaintext,
// stored as a legacy digest. Returns the row as persisted.
func SeedUser(t *testing.T, pool *pgxpool.Pool, password string) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	user := domain.User{
		Username:     "user-" + suffix,
		PasswordHash: auth.LegacyDigest(password),
		FullName:     "Test User " + suffix,
		Status:       domain.StatusActive,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, full_name, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.Username, user.PasswordHash, user.FullName, user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedRole creates a role with a unique code. Returns the row as persisted.
func SeedRole(t *testing.T, pool *pgxpool.Pool) domain.Role {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	role := domain.Role{
		Code: "ROLE_" + suffix,
		Name: "Role " + suffix,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO roles (code, name) VALUES ($1, $2)
		 RETURNING id, created_at`,
		role.Code, role.Name,
	).Scan(&role.ID, &role.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedRole insert role: %v", err)
	}

	return role
}

// EnsureRole creates the role with the given fixed code if it does not exist
// yet and returns its id. Used for the shipped role codes, which are unique
// across the shared database.
func EnsureRole(t *testing.T, pool *pgxpool.Pool, code string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO roles (code, name) VALUES ($1, $1)
		 ON CONFLICT (code) DO NOTHING`, code)
	if err != nil {
		t.Fatalf("testhelper: EnsureRole insert role: %v", err)
	}

	var id uuid.UUID
	err = pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = $1`, code).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: EnsureRole select role: %v", err)
	}
	return id
}

// SeedDepartment creates a department. Returns the row as persisted.
func SeedDepartment(t *testing.T, pool *pgxpool.Pool) domain.Department {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	dep := domain.Department{
		Name: "Department " + suffix,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1)
		 RETURNING id, created_at`,
		dep.Name,
	).Scan(&dep.ID, &dep.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDepartment insert department: %v", err)
	}

	return dep
}

// SeedLab creates a lab in the given department. Returns the row as persisted.
func SeedLab(t *testing.T, pool *pgxpool.Pool, departmentID uuid.UUID) domain.Lab {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	lab := domain.Lab{
		Name:         "Lab " + suffix,
		Code:         "LAB-" + suffix,
		DepartmentID: departmentID,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO labs (name, code, department_id) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		lab.Name, lab.Code, lab.DepartmentID,
	).Scan(&lab.ID, &lab.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedLab insert lab: %v", err)
	}

	return lab
}
