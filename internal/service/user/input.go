package user

import (
	"strings"

	"github.com/emslab/labadmin/internal/domain"
)

// CreateInput holds parameters for account provisioning.
type CreateInput struct {
	Username string
	Password string
	FullName string
	Email    *string
	Phone    *string
}

// Validate validates the account provisioning input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	} else if len(i.Username) > 255 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "too long"})
	}

	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) < 6 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	}

	if strings.TrimSpace(i.FullName) == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}

	if i.Email != nil && !strings.Contains(*i.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
