package domain

import (
	"time"

	"github.com/google/uuid"
)

// Department is an organizational unit. Parent links form a tree; the store
// does not reject cycles, so listing resolves only the immediate parent.
type Department struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	ManagerID *uuid.UUID
	CreatedAt time.Time

	// Resolved by the listing join, not stored on the row.
	ParentName  *string
	ManagerName *string
}

// Lab is a laboratory belonging to a department.
type Lab struct {
	ID           uuid.UUID
	Name         string
	Code         string
	DepartmentID uuid.UUID
	ManagerID    *uuid.UUID
	CreatedAt    time.Time

	// Resolved by the listing join.
	DepartmentName *string
	ManagerName    *string
}

// LabMembership is a (lab, user) association with a free-form in-lab role.
// Removal flips Active to false; the row itself is never deleted, so history
// survives and re-adding a member is idempotent.
type LabMembership struct {
	LabID     uuid.UUID
	UserID    uuid.UUID
	RoleInLab string
	Active    bool

	// Resolved when listing a user's memberships.
	LabName        *string
	LabCode        *string
	DepartmentName *string
}

// LabMember is a user row as seen through an active lab membership.
type LabMember struct {
	UserID    uuid.UUID
	Username  string
	FullName  string
	Email     *string
	RoleInLab string
	Active    bool
}
