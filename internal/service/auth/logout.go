package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/pkg/ctxutil"
)

// Logout revokes all refresh tokens of the authenticated user, ending every
// session. The access token stays cryptographically valid until it expires;
// its short TTL bounds the exposure.
func (s *Service) Logout(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID.String()))

	return nil
}
