// Package user implements account administration: creation, listing, and
// lifecycle status changes.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	userrepo "github.com/emslab/labadmin/internal/adapter/postgres/user"
	"github.com/emslab/labadmin/internal/domain"
	"github.com/emslab/labadmin/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by the user service.
type userRepo interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, f userrepo.Filter) ([]domain.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (int64, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// auditRepo defines the audit repository interface needed by the user service.
type auditRepo interface {
	Log(ctx context.Context, rec domain.AuditRecord) (int64, error)
}

// txManager defines the transaction manager interface needed by the user service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// hasher defines the credential hashing interface needed by the user service.
type hasher interface {
	Hash(password string) (string, error)
}

// Service implements account administration operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	audit  auditRepo
	tx     txManager
	hasher hasher
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo, audit auditRepo, tx txManager, h hasher) *Service {
	return &Service{
		log:    logger.With("service", "user"),
		users:  users,
		audit:  audit,
		tx:     tx,
		hasher: h,
	}
}

// Create provisions a new account. The username must be unique across all
// accounts regardless of status. The insert and its audit record commit in
// one transaction; the audit snapshot never contains the credential digest.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.NewValidationError("actor", "required")
	}

	taken, err := s.users.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("user.Create check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("user %s: %w", input.Username, domain.ErrAlreadyExists)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user.Create hash: %w", err)
	}

	var created *domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err = s.users.Create(ctx, &domain.User{
			Username:     input.Username,
			PasswordHash: digest,
			FullName:     input.FullName,
			Email:        input.Email,
			Phone:        input.Phone,
			Status:       domain.StatusActive,
		})
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}

		rec := auditRecord(ctx, actor.UserID, domain.AuditUserCreate, created.ID)
		rec.After = map[string]any{
			"username":  created.Username,
			"full_name": created.FullName,
			"status":    string(created.Status),
		}
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("user.Create: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("user_id", created.ID.String()),
		slog.String("username", created.Username))

	return created, nil
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.Get: %w", err)
	}
	return u, nil
}

// List returns users matching the filter.
func (s *Service) List(ctx context.Context, f userrepo.Filter) ([]domain.User, error) {
	users, err := s.users.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return users, nil
}

// UsernameTaken reports whether any account carries the username, regardless
// of status.
func (s *Service) UsernameTaken(ctx context.Context, username string) (bool, error) {
	taken, err := s.users.UsernameExists(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, fmt.Errorf("user.UsernameTaken: %w", err)
	}
	return taken, nil
}

// SetStatus changes the account lifecycle status. Accounts are deactivated,
// never deleted. The audit record carries before and after status snapshots
// and commits with the update in one transaction. Returns domain.ErrNotFound
// for an unknown id.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	if status != domain.StatusActive && status != domain.StatusInactive {
		return domain.NewValidationError("status", "unknown value")
	}

	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.NewValidationError("actor", "required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.users.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}

		if _, err := s.users.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		rec := auditRecord(ctx, actor.UserID, domain.AuditUserStatus, id)
		rec.Before = map[string]any{"status": string(before.Status)}
		rec.After = map[string]any{"status": string(status)}
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("user.SetStatus: %w", err)
	}

	s.log.InfoContext(ctx, "user status changed",
		slog.String("user_id", id.String()),
		slog.String("status", string(status)))

	return nil
}

func auditRecord(ctx context.Context, actorID uuid.UUID, action string, objectID uuid.UUID) domain.AuditRecord {
	rec := domain.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		ObjectType: domain.ObjectUser,
		ObjectID:   objectID.String(),
	}
	if origin := ctxutil.OriginFromCtx(ctx); origin != "" {
		rec.Origin = &origin
	}
	return rec
}
