package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// Create validates the input, stamps the authenticated user as owner, and
// persists the subscription. The owner always comes from the session, never
// from the input.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.subs.Create(ctx, &domain.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Cycle:       input.Cycle,
		RenewalDate: normalizeDate(input.RenewalDate),
		Category:    trimOrNil(input.Category),
		Notes:       trimOrNil(input.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription created",
		slog.String("user_id", userID.String()),
		slog.String("subscription_id", created.ID.String()),
		slog.String("name", created.Name),
	)

	return created, nil
}

// normalizeDate strips the time-of-day component of a renewal date.
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.UTC().Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date
}
