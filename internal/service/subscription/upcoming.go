package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/internal/renewal"
	"github.com/subtally/subtally/pkg/ctxutil"
)

const (
	// DefaultUpcomingDays is the dashboard's renewal window.
	DefaultUpcomingDays = 30
	maxUpcomingDays     = 365
)

// Upcoming returns the authenticated user's subscriptions renewing within
// the next `days` days, ordered by renewal date.
func (s *Service) Upcoming(ctx context.Context, days int) ([]domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if days <= 0 {
		days = DefaultUpcomingDays
	}
	if days > maxUpcomingDays {
		return nil, domain.NewValidationError("days", "max 365")
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return renewal.UpcomingWithin(subs, days, s.now()), nil
}

// RenewingWithin returns the subscriptions of ALL users with a renewal date
// between today and today+days. It backs the cron-facing sync endpoint and
// shares the repository window query; it must never be reachable from a
// user-facing route.
func (s *Service) RenewingWithin(ctx context.Context, days int) ([]domain.Subscription, error) {
	now := s.now().UTC()
	return s.subs.ListRenewingBetween(ctx, now, now.Add(time.Duration(days)*24*time.Hour))
}
