// Package token implements the RefreshToken repository using PostgreSQL.
package token

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/subtally/subtally/internal/adapter/postgres"
	"github.com/subtally/subtally/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new refresh token.
func (r *Repo) Create(ctx context.Context, t *domain.RefreshToken) error {
	sql, args, err := psql.Insert("refresh_tokens").
		Columns("user_id", "token_hash", "expires_at").
		Values(t.UserID, t.TokenHash, t.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return nil
}

// GetByHash returns an active (non-revoked, non-expired) refresh token by its
// hash. Returns domain.ErrNotFound if the token does not exist, is revoked,
// or is expired.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	sql, args, err := psql.Select("id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at").
		From("refresh_tokens").
		Where(sq.Eq{"token_hash": tokenHash, "revoked_at": nil}).
		Where(sq.Expr("expires_at > now()")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		t         domain.RefreshToken
		revokedAt pgtype.Timestamptz
	)
	err = q.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &revokedAt)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", uuid.Nil)
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}

	return &t, nil
}

// RevokeByID revokes a specific refresh token by setting revoked_at.
// Idempotent: revoking an already-revoked token is not an error.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Update("refresh_tokens").
		Set("revoked_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", id)
	}

	return nil
}

// RevokeAllByUser revokes all active refresh tokens for the given user.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	sql, args, err := psql.Update("refresh_tokens").
		Set("revoked_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke-all query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return nil
}

// DeleteExpired removes all expired or revoked tokens from the database.
// Returns the count of deleted tokens.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	sql, args, err := psql.Delete("refresh_tokens").
		Where(sq.Or{
			sq.Expr("expires_at <= now()"),
			sq.NotEq{"revoked_at": nil},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete-expired query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return int(tag.RowsAffected()), nil
}
