package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emslab/labadmin/internal/domain"
)

// Login validates a username/password pair and returns the matching user.
//
// Returns domain.ErrInvalidCredentials when no active account carries the
// username or the password does not match; the two cases are deliberately
// indistinguishable. Storage failures propagate unchanged, so callers can
// tell "bad credentials" from "store unavailable".
//
// On success the user's last_login_at is stamped and the returned value
// reflects the stamp.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetActiveByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login get user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	stamped, err := s.users.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login stamp last login: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", stamped.ID.String()))

	return stamped, nil
}

// ChangePassword replaces the stored credential digest for a user, writing
// the configured hash scheme. The update and its audit record commit in one
// transaction. The new digest never appears in the audit snapshot.
func (s *Service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth.ChangePassword hash: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.users.UpdatePassword(ctx, input.UserID, digest)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		rec := auditRecord(ctx, input.UserID,
			domain.AuditUserPassword, domain.ObjectUser, input.UserID.String())
		if _, err := s.audit.Log(ctx, rec); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("auth.ChangePassword: %w", err)
	}

	s.log.InfoContext(ctx, "password changed",
		slog.String("user_id", input.UserID.String()))

	return nil
}
