package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus is an open string status. The store does not enforce a vocabulary;
// the constants below are the values this system itself writes.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

func (s UserStatus) String() string { return string(s) }

// User represents an account in the administration system.
// Accounts are never hard-deleted; a status change is the deletion surrogate.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	FullName     string
	Email        *string
	Phone        *string
	Status       UserStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
