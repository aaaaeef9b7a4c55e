// Package subscription implements the user-facing subscription operations:
// CRUD over owned records plus the derived views (upcoming renewals, spend
// summary) computed by the renewal package.
package subscription

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	postgressub "github.com/subtally/subtally/internal/adapter/postgres/subscription"
	"github.com/subtally/subtally/internal/domain"
)

//go:generate moq -out repo_mock_test.go -pkg subscription . subscriptionRepo

// subscriptionRepo defines the repository interface needed by the service.
type subscriptionRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error)
	ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error)
	Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch postgressub.UpdatePatch) (*domain.Subscription, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service provides subscription management operations.
type Service struct {
	subs subscriptionRepo
	log  *slog.Logger
	now  func() time.Time
}

// NewService creates a new subscription service.
func NewService(log *slog.Logger, subs subscriptionRepo) *Service {
	return &Service{
		subs: subs,
		log:  log.With("service", "subscription"),
		now:  time.Now,
	}
}

// trimOrNil trims whitespace. Returns nil if the result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
