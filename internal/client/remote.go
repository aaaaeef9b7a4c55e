// Package client implements the consumer side of the subscription backend:
// a session context holding the authenticated identity and a store that
// caches the user's subscriptions, writing through to the backend and
// re-synchronizing after every write or change notification.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
)

// Typed failures surfaced by the store and session. Local validation reuses
// *domain.ValidationError; none of these are ever retried automatically:
// retry policy belongs to the caller.
var (
	// ErrNotAuthenticated: the operation needs a session and none is active.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFoundOrForbidden: a write matched zero rows. Deliberately
	// ambiguous between a missing record and someone else's record.
	ErrNotFoundOrForbidden = errors.New("not found or not owned")
)

// RemoteError carries a backend-reported failure message verbatim.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return "remote: " + e.Message }

// Session is an authenticated identity plus its token pair.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
}

// SignUpResult distinguishes "session active" from "account created, email
// confirmation pending"; callers must not assume sign-up success implies
// an authenticated session.
type SignUpResult struct {
	Session             *Session
	PendingConfirmation bool
}

// AuthAPI is the narrow auth surface of the backend.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

// CreateRecord holds the fields of a new subscription. Price is in cents
// per billing cycle.
type CreateRecord struct {
	Name        string
	Price       domain.Cents
	Cycle       domain.Cycle
	RenewalDate *time.Time
	Category    string
	Notes       string
}

// UpdateRecord holds a partial update; nil fields are left untouched.
type UpdateRecord struct {
	Name        *string
	Price       *domain.Cents
	Cycle       *domain.Cycle
	RenewalDate *time.Time
	Category    *string
	Notes       *string
}

// RemoteStore is the narrow data surface of the backend. Every call is
// scoped server-side to the session's user; Watch delivers change hints
// (never deltas) until its context is canceled.
type RemoteStore interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Create(ctx context.Context, rec CreateRecord) (*domain.Subscription, error)
	Update(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Watch(ctx context.Context, onChange func()) error
}
