package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
)

// StoreState describes the cache lifecycle.
type StoreState string

const (
	StoreUnauthenticated StoreState = "unauthenticated"
	StoreLoading         StoreState = "loading"
	StoreReady           StoreState = "ready"
)

// Store caches the authenticated user's subscriptions. Reads serve the
// in-memory snapshot; every write goes through to the backend and then
// replaces the snapshot wholesale with a fresh fetch before the call
// returns, so a caller observing the store after a completed operation
// always sees post-write state. Change notifications from Watch funnel into
// the same refresh routine.
//
// Concurrent refreshes are not ordered: each fetch carries a generation
// number and only the newest result is applied (last writer wins on the
// snapshot, never a torn mix).
type Store struct {
	remote RemoteStore
	log    *slog.Logger

	mu       sync.Mutex
	state    StoreState
	snapshot []domain.Subscription
	fetchGen uint64 // generation handed to the most recent fetch
	applyGen uint64 // generation of the currently applied snapshot

	watchStop context.CancelFunc
}

// NewStore creates a store in the Unauthenticated state.
func NewStore(remote RemoteStore, logger *slog.Logger) *Store {
	return &Store{
		remote: remote,
		log:    logger.With("component", "store"),
		state:  StoreUnauthenticated,
	}
}

// State returns the current cache state.
func (s *Store) State() StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// List returns a copy of the current snapshot. During Loading this is the
// last-known (initially empty) list; after sign-out it is empty.
func (s *Store) List() []domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Subscription, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Bind attaches the store to the authenticated session: it loads the
// initial snapshot and starts watching for change notifications. The watch
// goroutine lives until Close; ctx only bounds the initial fetch.
func (s *Store) Bind(ctx context.Context) error {
	wCtx, stop := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.watchStop != nil {
		s.watchStop() // rebinding releases the previous subscription
	}
	s.state = StoreLoading
	s.watchStop = stop
	s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return err
	}

	go func() {
		err := s.remote.Watch(wCtx, func() {
			// Change hint, not a delta: re-run the same refresh path
			// writes use.
			if err := s.refresh(wCtx); err != nil && wCtx.Err() == nil {
				s.log.Warn("refresh after change notification failed",
					slog.String("error", err.Error()))
			}
		})
		if err != nil && wCtx.Err() == nil {
			s.log.Warn("watch terminated", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Close detaches the store: the watch subscription is released exactly once
// and the snapshot is discarded immediately, so no prior user's data can
// leak into the next session's first render. Safe to call multiple times
// and on an unbound store.
func (s *Store) Close() {
	s.mu.Lock()
	stop := s.watchStop
	s.watchStop = nil
	s.state = StoreUnauthenticated
	s.snapshot = nil
	s.applyGen = s.fetchGen // stale in-flight refreshes must not resurrect data
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Create validates the record locally, writes through, and refreshes the
// snapshot before returning. Invalid input never reaches the backend.
func (s *Store) Create(ctx context.Context, rec CreateRecord) (*domain.Subscription, error) {
	if err := validateRecord(rec.Name, rec.Price); err != nil {
		return nil, err
	}

	created, err := s.remote.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh after create: %w", err)
	}

	return created, nil
}

// Update writes a partial update through and refreshes the snapshot before
// returning. Provided name/price fields are validated locally first.
func (s *Store) Update(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error) {
	var errs []domain.FieldError
	if rec.Name != nil && strings.TrimSpace(*rec.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if rec.Price != nil && *rec.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	updated, err := s.remote.Update(ctx, id, rec)
	if err != nil {
		return nil, err
	}

	if err := s.refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh after update: %w", err)
	}

	return updated, nil
}

// Delete writes through and refreshes the snapshot before returning.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return fmt.Errorf("refresh after delete: %w", err)
	}

	return nil
}

// Refresh re-fetches the snapshot on demand.
func (s *Store) Refresh(ctx context.Context) error {
	return s.refresh(ctx)
}

// refresh is the single invalidate-and-reload routine shared by writes and
// change notifications. The fetch runs outside the lock; the result is
// applied only if no newer fetch has been applied meanwhile.
func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()

	subs, err := s.remote.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen > s.applyGen {
		s.applyGen = gen
		s.snapshot = subs
		if s.state == StoreLoading {
			s.state = StoreReady
		}
	}
	return nil
}

// validateRecord enforces the local pre-write invariants: non-blank name,
// non-negative price.
func validateRecord(name string, price domain.Cents) error {
	var errs []domain.FieldError
	if strings.TrimSpace(name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
