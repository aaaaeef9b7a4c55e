package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/subtally/subtally/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a confirmed user with a placeholder password hash.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:             uuid.New(),
		Email:          "testuser-" + suffix + "@example.com",
		PasswordHash:   "$2a$04$placeholderplaceholderplaceholderplacehold",
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, email_confirmed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.EmailConfirmed, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedSubscription creates a subscription for userID. renewalDate, category
// and notes may be nil. Returns the filled domain.Subscription.
func SeedSubscription(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, name string, price domain.Cents, cycle domain.Cycle, renewalDate *time.Time, category *string) domain.Subscription {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sub := domain.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Price:       price,
		Cycle:       cycle,
		RenewalDate: renewalDate,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, name, price_cents, cycle, renewal_date, category, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sub.ID, sub.UserID, sub.Name, int64(sub.Price), sub.Cycle.String(),
		sub.RenewalDate, sub.Category, sub.Notes, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSubscription insert: %v", err)
	}

	return sub
}
