package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// Delete removes a subscription owned by the authenticated user.
// Missing and foreign records both surface domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.subs.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription deleted",
		slog.String("user_id", userID.String()),
		slog.String("subscription_id", id.String()),
	)

	return nil
}
