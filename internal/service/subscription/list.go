package subscription

import (
	"context"
	"fmt"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// List returns all subscriptions of the authenticated user, ordered by
// renewal date ascending with unscheduled ones last.
func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}
