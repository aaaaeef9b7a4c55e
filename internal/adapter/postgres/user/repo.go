// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/subtally/subtally/internal/adapter/postgres"
	"github.com/subtally/subtally/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const columnsStr = "id, email, password_hash, email_confirmed, created_at, updated_at"

var columns = []string{"id", "email", "password_hash", "email_confirmed", "created_at", "updated_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	sql, args, err := psql.Select(columns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

// GetByEmail returns a user by email address (stored lowercased).
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	sql, args, err := psql.Select(columns...).From("users").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}

	return &u, nil
}

// Create inserts a new user and returns the persisted domain.User.
// Returns domain.ErrAlreadyExists when the email is taken.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	sql, args, err := psql.Insert("users").
		Columns(columns...).
		Values(u.ID, u.Email, u.PasswordHash, u.EmailConfirmed, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + columnsStr).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	created, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	return &created, nil
}

// ConfirmEmail marks the user's email as confirmed.
func (r *Repo) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Update("users").
		Set("email_confirmed", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirm query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
