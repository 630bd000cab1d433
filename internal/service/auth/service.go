// Package auth implements credential validation against the identity store.
package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/emslab/labadmin/internal/domain"
	"github.com/emslab/labadmin/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error)
}

// auditRepo defines the audit repository interface needed by the auth service.
type auditRepo interface {
	Log(ctx context.Context, rec domain.AuditRecord) (int64, error)
}

// txManager defines the transaction manager interface needed by the auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// hasher defines the credential hashing interface needed by the auth service.
type hasher interface {
	Hash(password string) (string, error)
	Verify(password, storedDigest string) bool
}

// Service implements authentication operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	audit  auditRepo
	tx     txManager
	hasher hasher
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userRepo, audit auditRepo, tx txManager, h hasher) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		audit:  audit,
		tx:     tx,
		hasher: h,
	}
}

// auditRecord builds a record stamped with the acting user and request origin
// from the context. When no actor is present, fallback identifies the actor
// (e.g. a self-service password change).
func auditRecord(ctx context.Context, fallback uuid.UUID, action, objectType, objectID string) domain.AuditRecord {
	actorID := fallback
	if actor, ok := ctxutil.ActorFromCtx(ctx); ok {
		actorID = actor.UserID
	}

	rec := domain.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
	}
	if origin := ctxutil.OriginFromCtx(ctx); origin != "" {
		rec.Origin = &origin
	}
	return rec
}
