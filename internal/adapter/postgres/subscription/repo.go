// Package subscription implements the Subscription repository using
// PostgreSQL. Every write is filtered by both id and user_id: the database
// enforces ownership, the predicate shapes the error surface (a foreign
// row and a missing row are both "not found").
package subscription

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/subtally/subtally/internal/adapter/postgres"
	"github.com/subtally/subtally/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "subscriptions"

var columns = []string{"id", "user_id", "name", "price_cents", "cycle", "renewal_date", "category", "notes", "created_at", "updated_at"}

// Repo provides subscription persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new subscription repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByUser returns all subscriptions owned by userID, ordered by renewal
// date ascending with NULL renewal dates last; creation time breaks ties so
// the order is stable across fetches.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("renewal_date ASC NULLS LAST", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	return r.queryList(ctx, sql, args)
}

// ListRenewingBetween returns subscriptions of ALL users with a renewal date
// in [from, to], ordered by renewal date ascending. Used by the cron-facing
// sync endpoint; both bounds are calendar dates (inclusive).
func (r *Repo) ListRenewingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(sq.GtOrEq{"renewal_date": dateOnly(from)}).
		Where(sq.LtOrEq{"renewal_date": dateOnly(to)}).
		OrderBy("renewal_date ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build renewing-between query: %w", err)
	}

	return r.queryList(ctx, sql, args)
}

func (r *Repo) queryList(ctx context.Context, sql string, args []any) ([]domain.Subscription, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []domain.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new subscription and returns the persisted row.
func (r *Repo) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Insert(table).
		Columns("id", "user_id", "name", "price_cents", "cycle", "renewal_date", "category", "notes", "created_at", "updated_at").
		Values(s.ID, s.UserID, s.Name, int64(s.Price), s.Cycle.String(),
			renewalDateArg(s.RenewalDate), textArg(s.Category), textArg(s.Notes),
			s.CreatedAt, s.UpdatedAt).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	created, err := scanSubscription(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "subscription", s.ID)
	}

	return &created, nil
}

// UpdatePatch describes a partial update. A nil pointer leaves the column
// untouched; for the nullable columns the Set flag distinguishes "not
// provided" from "clear to NULL".
type UpdatePatch struct {
	Name  *string
	Price *domain.Cents
	Cycle *domain.Cycle

	RenewalDate    *time.Time
	SetRenewalDate bool

	Category    *string
	SetCategory bool

	Notes    *string
	SetNotes bool
}

func (p UpdatePatch) isEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Cycle == nil &&
		!p.SetRenewalDate && !p.SetCategory && !p.SetNotes
}

// Update applies the patch to the row matching both id and userID and
// returns the updated row. Returns domain.ErrNotFound when the row does not
// exist or belongs to another user.
func (r *Repo) Update(ctx context.Context, userID, id uuid.UUID, patch UpdatePatch) (*domain.Subscription, error) {
	if patch.isEmpty() {
		// Nothing to change; still verify existence and ownership.
		return r.getByID(ctx, userID, id)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Update(table).Set("updated_at", time.Now().UTC())
	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Price != nil {
		b = b.Set("price_cents", int64(*patch.Price))
	}
	if patch.Cycle != nil {
		b = b.Set("cycle", patch.Cycle.String())
	}
	if patch.SetRenewalDate {
		b = b.Set("renewal_date", renewalDateArg(patch.RenewalDate))
	}
	if patch.SetCategory {
		b = b.Set("category", textArg(patch.Category))
	}
	if patch.SetNotes {
		b = b.Set("notes", textArg(patch.Notes))
	}

	sql, args, err := b.
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	updated, err := scanSubscription(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "subscription", id)
	}

	return &updated, nil
}

// Delete removes the row matching both id and userID. Returns
// domain.ErrNotFound when zero rows are affected.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete(table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "subscription", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *Repo) getByID(ctx context.Context, userID, id uuid.UUID) (*domain.Subscription, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	s, err := scanSubscription(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "subscription", id)
	}

	return &s, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

func returning() string {
	return "id, user_id, name, price_cents, cycle, renewal_date, category, notes, created_at, updated_at"
}

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var (
		s           domain.Subscription
		priceCents  int64
		cycle       string
		renewalDate pgtype.Date
		category    pgtype.Text
		notes       pgtype.Text
	)

	err := row.Scan(&s.ID, &s.UserID, &s.Name, &priceCents, &cycle,
		&renewalDate, &category, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Subscription{}, err
	}

	s.Price = domain.Cents(priceCents)
	s.Cycle = domain.Cycle(cycle)
	if renewalDate.Valid {
		d := renewalDate.Time.UTC()
		s.RenewalDate = &d
	}
	if category.Valid {
		s.Category = &category.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}

	return s, nil
}

// renewalDateArg converts a *time.Time to a pgtype.Date (nil -> NULL).
func renewalDateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: dateOnly(*t), Valid: true}
}

// textArg converts a *string to pgtype.Text (nil -> NULL).
func textArg(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// dateOnly strips the time-of-day component, keeping the UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
