// Package user implements the users table accessor using PostgreSQL.
package user

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/emslab/labadmin/internal/adapter/postgres"
	"github.com/emslab/labadmin/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db *postgres.Gateway
}

// New creates a new user repository.
func New(db *postgres.Gateway) *Repo {
	return &Repo{db: db}
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = `id, username, password_hash, full_name, email, phone, status,
       last_login_at, created_at, updated_at`

// Filter defines parameters for listing users.
type Filter struct {
	// Status restricts to one account status; nil means all statuses.
	Status *domain.UserStatus

	// Search performs ILIKE '%...%' on username and full_name.
	Search *string

	// Limit caps the result; values <= 0 fall back to 100.
	Limit  int
	Offset int
}

// Create inserts a new user and returns the persisted row. A nil Email or
// Phone binds as SQL NULL, never as an empty string.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	var created domain.User
	err := pgxscan.Get(ctx, r.db, &created,
		`INSERT INTO users (username, password_hash, full_name, email, phone, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.FullName, u.Email, u.Phone, u.Status,
	)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.Username)
	}
	return &created, nil
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := pgxscan.Get(ctx, r.db, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.MapError(err, "user", id.String())
	}
	return &u, nil
}

// GetActiveByUsername returns the user with the exact username and status
// 'active'. Login resolves credentials through this lookup only, so inactive
// accounts fail closed.
func (r *Repo) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := pgxscan.Get(ctx, r.db, &u,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND status = $2`,
		username, domain.StatusActive)
	if err != nil {
		return nil, postgres.MapError(err, "user", username)
	}
	return &u, nil
}

// List returns users matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f Filter) ([]domain.User, error) {
	q := builder.
		Select("id", "username", "password_hash", "full_name", "email", "phone",
			"status", "last_login_at", "created_at", "updated_at").
		From("users").
		OrderBy("created_at DESC")

	if f.Status != nil {
		q = q.Where(sq.Eq{"status": *f.Status})
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"full_name": pattern},
		})
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q = q.Limit(uint64(limit)).Offset(uint64(f.Offset))

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", "list")
	}

	var users []domain.User
	if err := pgxscan.Select(ctx, r.db, &users, stmt, args...); err != nil {
		return nil, postgres.MapError(err, "user", "list")
	}
	return users, nil
}

// UpdateStatus sets the account status and returns the affected-row count.
// Status changes are the deletion surrogate; user rows are never removed.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (int64, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return 0, postgres.MapError(err, "user", id.String())
	}
	return n, nil
}

// UpdatePassword replaces the stored credential digest.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return 0, postgres.MapError(err, "user", id.String())
	}
	return n, nil
}

// UsernameExists reports whether a user row with the exact username exists,
// regardless of status.
func (r *Repo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.Scalar(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE username = $1`, username)
	if err != nil {
		return false, postgres.MapError(err, "user", username)
	}
	return count > 0, nil
}

// TouchLastLogin stamps last_login_at with the store clock and returns the
// stamped time, so callers can hand back a user value that reflects the login
// that just happened.
func (r *Repo) TouchLastLogin(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := pgxscan.Get(ctx, r.db, &u,
		`UPDATE users SET last_login_at = now() WHERE id = $1
		 RETURNING `+userColumns, id)
	if err != nil {
		return nil, postgres.MapError(err, "user", id.String())
	}
	return &u, nil
}
