package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/subtally/subtally/internal/domain"
)

// Refresh rotates a refresh token: the presented token is revoked and a new
// access/refresh pair is issued. An unknown, expired, or revoked token
// returns ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.tokens.GetByHash(ctx, s.jwt.HashRefreshToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("auth.Refresh: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.Refresh: %w", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh load user: %w", err)
	}

	if err := s.tokens.RevokeByID(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("auth.Refresh revoke old token: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh issue tokens: %w", err)
	}

	s.log.DebugContext(ctx, "token refreshed",
		slog.String("user_id", user.ID.String()))

	return result, nil
}
