package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/subtally/subtally/internal/domain"
)

// Register creates a new user with email + password authentication.
// Returns ErrAlreadyExists if the email is already taken. When the service
// is configured to require email confirmation, the result carries
// PendingConfirmation and no tokens are issued.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Create the user and the initial refresh token in one transaction so a
	// failed token insert never leaves a half-registered account behind.
	// Email uniqueness is enforced by the DB constraint.
	var result *AuthResult

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		user, err := s.users.Create(txCtx, &domain.User{
			ID:             uuid.New(),
			Email:          input.Email,
			PasswordHash:   string(hash),
			EmailConfirmed: !s.cfg.RequireConfirmation,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		if s.cfg.RequireConfirmation {
			result = &AuthResult{User: user, PendingConfirmation: true}
			return nil
		}

		result, err = s.issueTokens(txCtx, user)
		if err != nil {
			return fmt.Errorf("issue tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	if result.PendingConfirmation {
		s.log.InfoContext(ctx, "user registered, confirmation pending",
			slog.String("user_id", result.User.ID.String()))
		return result, nil
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("user_id", result.User.ID.String()))

	return result, nil
}
