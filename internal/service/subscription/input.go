package subscription

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
)

const (
	maxNameLen     = 200
	maxCategoryLen = 100
	maxNotesLen    = 2000
)

// CreateInput holds the parameters for creating a subscription.
// Price is denominated per billing cycle, in cents.
type CreateInput struct {
	Name        string
	Price       domain.Cents
	Cycle       domain.Cycle
	RenewalDate *time.Time
	Category    *string
	Notes       *string
}

// Validate checks all fields and collects all errors. Validation happens
// before any repository call: an invalid record never reaches the database.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}

	if i.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
	}

	if !i.Cycle.IsValid() {
		errs = append(errs, domain.FieldError{Field: "cycle", Message: "must be monthly or yearly"})
	}

	errs = append(errs, validateOptionalText("category", i.Category, maxCategoryLen)...)
	errs = append(errs, validateOptionalText("notes", i.Notes, maxNotesLen)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for a partial update. Nil pointers leave
// the field untouched; for the nullable fields the Set flag distinguishes
// "not provided" from "clear".
type UpdateInput struct {
	ID uuid.UUID

	Name  *string
	Price *domain.Cents
	Cycle *domain.Cycle

	RenewalDate    *time.Time
	SetRenewalDate bool

	Category    *string
	SetCategory bool

	Notes    *string
	SetNotes bool
}

// Validate checks all provided fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}

	if i.Name != nil {
		name := strings.TrimSpace(*i.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		} else if len(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
		}
	}

	if i.Price != nil && *i.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
	}

	if i.Cycle != nil && !i.Cycle.IsValid() {
		errs = append(errs, domain.FieldError{Field: "cycle", Message: "must be monthly or yearly"})
	}

	if i.SetCategory {
		errs = append(errs, validateOptionalText("category", i.Category, maxCategoryLen)...)
	}
	if i.SetNotes {
		errs = append(errs, validateOptionalText("notes", i.Notes, maxNotesLen)...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateOptionalText(field string, s *string, maxLen int) []domain.FieldError {
	if s == nil {
		return nil
	}
	if len(strings.TrimSpace(*s)) > maxLen {
		return []domain.FieldError{{Field: field, Message: "too long"}}
	}
	return nil
}
