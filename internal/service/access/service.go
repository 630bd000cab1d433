// Package access implements role-based authorization checks and role grant
// administration.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/emslab/labadmin/internal/domain"
	"github.com/emslab/labadmin/pkg/ctxutil"
)

// roleRepo defines the role repository interface needed by the access service.
type roleRepo interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	RolesOfUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRole, error)
	Assign(ctx context.Context, userID, roleID, assignedBy uuid.UUID) (int64, error)
	Revoke(ctx context.Context, userID, roleID uuid.UUID) (int64, error)
	HasRole(ctx context.Context, userID uuid.UUID, roleCode string) (bool, error)
}

// auditRepo defines the audit repository interface needed by the access service.
type auditRepo interface {
	Log(ctx context.Context, rec domain.AuditRecord) (int64, error)
}

// txManager defines the transaction manager interface needed by the access service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements authorization checks and grant mutations.
type Service struct {
	log   *slog.Logger
	roles roleRepo
	audit auditRepo
	tx    txManager
}

// NewService creates a new access service instance.
func NewService(logger *slog.Logger, roles roleRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		log:   logger.With("service", "access"),
		roles: roles,
		audit: audit,
		tx:    tx,
	}
}

// HasRole reports whether the user holds a role whose code matches exactly.
// There is no hierarchy at this layer: holding ADMIN does not imply USER.
// Callers compose checks when they need an implication policy.
func (s *Service) HasRole(ctx context.Context, userID uuid.UUID, roleCode string) (bool, error) {
	ok, err := s.roles.HasRole(ctx, userID, roleCode)
	if err != nil {
		return false, fmt.Errorf("access.HasRole: %w", err)
	}
	return ok, nil
}

// RolesOf returns the roles held by the user with grant metadata.
func (s *Service) RolesOf(ctx context.Context, userID uuid.UUID) ([]domain.UserRole, error) {
	roles, err := s.roles.RolesOfUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("access.RolesOf: %w", err)
	}
	return roles, nil
}

// Roles returns all role definitions.
func (s *Service) Roles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("access.Roles: %w", err)
	}
	return roles, nil
}

// roleLabels maps shipped role codes to display labels, in precedence order.
var roleLabels = []struct {
	code  string
	label string
}{
	{domain.RoleSuperAdmin, "Super Administrator"},
	{domain.RoleAdmin, "Administrator"},
	{domain.RoleLabManager, "Lab Manager"},
	{domain.RoleUser, "User"},
}

// RoleLabel composes a display label from the user's held roles, highest
// precedence first. Returns "No Role" when the user holds none of the
// shipped roles.
func (s *Service) RoleLabel(ctx context.Context, userID uuid.UUID) (string, error) {
	held, err := s.roles.RolesOfUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("access.RoleLabel: %w", err)
	}

	codes := make(map[string]bool, len(held))
	for _, r := range held {
		codes[r.Code] = true
	}

	var labels []string
	for _, rl := range roleLabels {
		if codes[rl.code] {
			labels = append(labels, rl.label)
		}
	}
	if len(labels) == 0 {
		return "No Role", nil
	}
	return strings.Join(labels, ", "), nil
}

// AssignRole grants the role with the given code to the user, recording the
// acting user as the grantor. Granting an already-held role refreshes the
// grant metadata. The grant and its audit record commit in one transaction.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, roleCode string) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.NewValidationError("actor", "required")
	}

	role, err := s.roles.GetByCode(ctx, roleCode)
	if err != nil {
		return fmt.Errorf("access.AssignRole resolve role %s: %w", roleCode, err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.roles.Assign(ctx, userID, role.ID, actor.UserID); err != nil {
			return fmt.Errorf("assign: %w", err)
		}

		rec := grantRecord(ctx, actor.UserID, domain.AuditRoleAssign, userID, role)
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("access.AssignRole: %w", err)
	}

	s.log.InfoContext(ctx, "role assigned",
		slog.String("user_id", userID.String()),
		slog.String("role", roleCode),
		slog.String("assigned_by", actor.UserID.String()))

	return nil
}

// RevokeRole deletes the grant row for (user, role code). Returns
// domain.ErrNotFound when the user does not hold the role. Revocation is
// physical; grants keep no history.
func (s *Service) RevokeRole(ctx context.Context, userID uuid.UUID, roleCode string) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.NewValidationError("actor", "required")
	}

	role, err := s.roles.GetByCode(ctx, roleCode)
	if err != nil {
		return fmt.Errorf("access.RevokeRole resolve role %s: %w", roleCode, err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.roles.Revoke(ctx, userID, role.ID)
		if err != nil {
			return fmt.Errorf("revoke: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		rec := grantRecord(ctx, actor.UserID, domain.AuditRoleRevoke, userID, role)
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("access.RevokeRole: %w", err)
	}

	s.log.InfoContext(ctx, "role revoked",
		slog.String("user_id", userID.String()),
		slog.String("role", roleCode))

	return nil
}

// grantRecord builds the audit record for a grant mutation. The object id is
// the (user, role) pair the association row is keyed by.
func grantRecord(ctx context.Context, actorID uuid.UUID, action string, userID uuid.UUID, role *domain.Role) domain.AuditRecord {
	rec := domain.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		ObjectType: domain.ObjectRoleGrant,
		ObjectID:   userID.String() + ":" + role.ID.String(),
		After: map[string]any{
			"user_id":   userID.String(),
			"role_code": role.Code,
		},
	}
	if origin := ctxutil.OriginFromCtx(ctx); origin != "" {
		rec.Origin = &origin
	}
	return rec
}
