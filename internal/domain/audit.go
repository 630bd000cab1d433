package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions and object types written by this system. The store accepts any
// string; these constants exist so call sites tag consistently.
const (
	AuditUserCreate   = "user.create"
	AuditUserStatus   = "user.status_change"
	AuditUserPassword = "user.password_change"
	AuditRoleAssign   = "role.assign"
	AuditRoleRevoke   = "role.revoke"
	AuditMemberAdd    = "lab.member_add"
	AuditMemberRemove = "lab.member_remove"

	ObjectUser       = "user"
	ObjectRoleGrant  = "user_role"
	ObjectMembership = "lab_membership"
)

// AuditRecord is one append-only audit trail entry. Records are immutable:
// no update or delete operation exists anywhere in the core.
type AuditRecord struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     string
	ObjectType string
	ObjectID   string
	Before     map[string]any
	After      map[string]any
	Origin     *string
	CreatedAt  time.Time
}
