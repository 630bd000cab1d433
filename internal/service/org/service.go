// Package org implements lab and department administration: structure
// queries and lab membership mutations.
package org

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/emslab/labadmin/internal/domain"
	"github.com/emslab/labadmin/pkg/ctxutil"
)

// orgRepo defines the org repository interface needed by the org service.
type orgRepo interface {
	Departments(ctx context.Context) ([]domain.Department, error)
	Labs(ctx context.Context) ([]domain.Lab, error)
	Members(ctx context.Context, labID uuid.UUID) ([]domain.LabMember, error)
	Membership(ctx context.Context, labID, userID uuid.UUID) (*domain.LabMembership, error)
	AddMember(ctx context.Context, labID, userID uuid.UUID, roleInLab string) (int64, error)
	RemoveMember(ctx context.Context, labID, userID uuid.UUID) (int64, error)
	MembershipsOf(ctx context.Context, userID uuid.UUID) ([]domain.LabMembership, error)
	IsMember(ctx context.Context, userID, labID uuid.UUID) (bool, error)
}

// auditRepo defines the audit repository interface needed by the org service.
type auditRepo interface {
	Log(ctx context.Context, rec domain.AuditRecord) (int64, error)
}

// txManager defines the transaction manager interface needed by the org service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements organizational structure operations.
type Service struct {
	log   *slog.Logger
	org   orgRepo
	audit auditRepo
	tx    txManager
}

// NewService creates a new org service instance.
func NewService(logger *slog.Logger, org orgRepo, audit auditRepo, tx txManager) *Service {
	return &Service{
		log:   logger.With("service", "org"),
		org:   org,
		audit: audit,
		tx:    tx,
	}
}

// Departments returns all departments with parent and manager names resolved.
func (s *Service) Departments(ctx context.Context) ([]domain.Department, error) {
	deps, err := s.org.Departments(ctx)
	if err != nil {
		return nil, fmt.Errorf("org.Departments: %w", err)
	}
	return deps, nil
}

// Labs returns all labs with department and manager names resolved.
func (s *Service) Labs(ctx context.Context) ([]domain.Lab, error) {
	labs, err := s.org.Labs(ctx)
	if err != nil {
		return nil, fmt.Errorf("org.Labs: %w", err)
	}
	return labs, nil
}

// Members returns the users holding an active membership in the lab.
func (s *Service) Members(ctx context.Context, labID uuid.UUID) ([]domain.LabMember, error) {
	members, err := s.org.Members(ctx, labID)
	if err != nil {
		return nil, fmt.Errorf("org.Members: %w", err)
	}
	return members, nil
}

// MembershipsOf returns the user's active lab memberships.
func (s *Service) MembershipsOf(ctx context.Context, userID uuid.UUID) ([]domain.LabMembership, error) {
	ms, err := s.org.MembershipsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("org.MembershipsOf: %w", err)
	}
	return ms, nil
}

// IsMember reports whether the user holds an active membership in the lab.
func (s *Service) IsMember(ctx context.Context, userID, labID uuid.UUID) (bool, error) {
	ok, err := s.org.IsMember(ctx, userID, labID)
	if err != nil {
		return false, fmt.Errorf("org.IsMember: %w", err)
	}
	return ok, nil
}

// AddMember puts a user into a lab with the given in-lab role. Adding an
// existing membership updates the role and reactivates it, so the call is
// safe to repeat. The mutation and its audit record commit in one
// transaction.
func (s *Service) AddMember(ctx context.Context, labID, userID uuid.UUID, roleInLab string) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.NewValidationError("actor", "required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Snapshot the prior row if any; a fresh add has no before state.
		var before map[string]any
		prior, err := s.org.Membership(ctx, labID, userID)
		switch {
		case err == nil:
			before = membershipSnapshot(prior)
		case errors.Is(err, domain.ErrNotFound):
		default:
			return fmt.Errorf("snapshot: %w", err)
		}

		if _, err := s.org.AddMember(ctx, labID, userID, roleInLab); err != nil {
			return fmt.Errorf("add member: %w", err)
		}

		rec := memberRecord(ctx, actor.UserID, domain.AuditMemberAdd, labID, userID)
		rec.Before = before
		rec.After = map[string]any{"role_in_lab": roleInLab, "active": true}
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("org.AddMember: %w", err)
	}

	s.log.InfoContext(ctx, "lab member added",
		slog.String("lab_id", labID.String()),
		slog.String("user_id", userID.String()),
		slog.String("role_in_lab", roleInLab))

	return nil
}

// RemoveMember deactivates the user's membership in the lab. The row is
// retained for history. Returns domain.ErrNotFound when no membership row
// exists for the pair.
func (s *Service) RemoveMember(ctx context.Context, labID, userID uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.NewValidationError("actor", "required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		prior, err := s.org.Membership(ctx, labID, userID)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}

		if _, err := s.org.RemoveMember(ctx, labID, userID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

		rec := memberRecord(ctx, actor.UserID, domain.AuditMemberRemove, labID, userID)
		rec.Before = membershipSnapshot(prior)
		rec.After = map[string]any{"role_in_lab": prior.RoleInLab, "active": false}
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("org.RemoveMember: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("org.RemoveMember: %w", err)
	}

	s.log.InfoContext(ctx, "lab member removed",
		slog.String("lab_id", labID.String()),
		slog.String("user_id", userID.String()))

	return nil
}

func membershipSnapshot(m *domain.LabMembership) map[string]any {
	return map[string]any{
		"role_in_lab": m.RoleInLab,
		"active":      m.Active,
	}
}

// memberRecord builds the audit record for a membership mutation. The object
// id is the (lab, user) pair the membership row is keyed by.
func memberRecord(ctx context.Context, actorID uuid.UUID, action string, labID, userID uuid.UUID) domain.AuditRecord {
	rec := domain.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		ObjectType: domain.ObjectMembership,
		ObjectID:   labID.String() + ":" + userID.String(),
	}
	if origin := ctxutil.OriginFromCtx(ctx); origin != "" {
		rec.Origin = &origin
	}
	return rec
}
