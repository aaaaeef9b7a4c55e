package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	postgressub "github.com/subtally/subtally/internal/adapter/postgres/subscription"
	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// Update applies a partial update to a subscription owned by the
// authenticated user. A record that does not exist and a record owned by
// someone else both surface domain.ErrNotFound.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	patch := postgressub.UpdatePatch{
		Price:          input.Price,
		Cycle:          input.Cycle,
		RenewalDate:    normalizeDate(input.RenewalDate),
		SetRenewalDate: input.SetRenewalDate,
		SetCategory:    input.SetCategory,
		SetNotes:       input.SetNotes,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		patch.Name = &trimmed
	}
	if input.SetCategory {
		patch.Category = trimOrNil(input.Category)
	}
	if input.SetNotes {
		patch.Notes = trimOrNil(input.Notes)
	}

	updated, err := s.subs.Update(ctx, userID, input.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription updated",
		slog.String("user_id", userID.String()),
		slog.String("subscription_id", input.ID.String()),
	)

	return updated, nil
}
