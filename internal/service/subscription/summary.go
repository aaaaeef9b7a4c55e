package subscription

import (
	"context"
	"fmt"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/internal/renewal"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// Summary aggregates the user's spending figures for the dashboard.
// All figures derive from one snapshot through the renewal package, so the
// totals, the per-category breakdown and the upcoming count are mutually
// consistent.
type Summary struct {
	TotalMonthly renewal.Amount
	TotalYearly  renewal.Amount
	ByCategory   map[string]renewal.Amount
	Upcoming     []domain.Subscription
	Count        int
}

// Summarize computes the spend summary for the authenticated user.
// Upcoming covers the next DefaultUpcomingDays days.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return &Summary{
		TotalMonthly: renewal.TotalMonthly(subs),
		TotalYearly:  renewal.TotalYearly(subs),
		ByCategory:   renewal.AggregateByCategory(subs),
		Upcoming:     renewal.UpcomingWithin(subs, DefaultUpcomingDays, s.now()),
		Count:        len(subs),
	}, nil
}
