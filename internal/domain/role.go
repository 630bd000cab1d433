package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role codes shipped with the system. Roles are reference data: the core reads
// them but never mutates the roles table.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleLabManager = "LAB_MANAGER"
	RoleUser       = "USER"
)

// Role is a named permission bundle identified by a stable machine code.
type Role struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

// RoleGrant is a (user, role) association. At most one grant exists per pair;
// re-granting updates AssignedBy/AssignedAt in place. Revocation deletes the
// row; grants keep no history, unlike lab memberships.
type RoleGrant struct {
	UserID     uuid.UUID
	RoleID     uuid.UUID
	AssignedBy uuid.UUID
	AssignedAt time.Time
}

// UserRole is a role joined with its grant metadata, as returned when listing
// the roles held by a user.
type UserRole struct {
	Role
	AssignedBy uuid.UUID
	AssignedAt time.Time
}
