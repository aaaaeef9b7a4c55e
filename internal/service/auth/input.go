package auth

import (
	"net/mail"
	"strings"

	"github.com/subtally/subtally/internal/domain"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// RegisterInput holds parameters for the sign-up operation.
type RegisterInput struct {
	Email    string
	Password string
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateEmail(i.Email)...)
	errs = append(errs, validatePassword(i.Password)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for the sign-in operation.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks all fields and collects all errors.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Email) == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RefreshInput holds parameters for the token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate checks all fields and collects all errors.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) []domain.FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []domain.FieldError{{Field: "email", Message: "required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []domain.FieldError{{Field: "email", Message: "invalid format"}}
	}
	return nil
}

func validatePassword(password string) []domain.FieldError {
	switch {
	case password == "":
		return []domain.FieldError{{Field: "password", Message: "required"}}
	case len(password) < minPasswordLen:
		return []domain.FieldError{{Field: "password", Message: "min 8 characters"}}
	case len(password) > maxPasswordLen:
		return []domain.FieldError{{Field: "password", Message: "max 72 characters"}}
	}
	return nil
}
