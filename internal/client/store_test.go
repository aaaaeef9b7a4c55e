package client

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/domain"
)

// remoteStoreMock is a func-field fake of the RemoteStore interface.
type remoteStoreMock struct {
	ListFunc   func(ctx context.Context) ([]domain.Subscription, error)
	CreateFunc func(ctx context.Context, rec CreateRecord) (*domain.Subscription, error)
	UpdateFunc func(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
	WatchFunc  func(ctx context.Context, onChange func()) error

	listCalls   atomic.Int64
	createCalls atomic.Int64
}

var _ RemoteStore = &remoteStoreMock{}

func (m *remoteStoreMock) List(ctx context.Context) ([]domain.Subscription, error) {
	m.listCalls.Add(1)
	return m.ListFunc(ctx)
}

func (m *remoteStoreMock) Create(ctx context.Context, rec CreateRecord) (*domain.Subscription, error) {
	m.createCalls.Add(1)
	return m.CreateFunc(ctx, rec)
}

func (m *remoteStoreMock) Update(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error) {
	return m.UpdateFunc(ctx, id, rec)
}

func (m *remoteStoreMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *remoteStoreMock) Watch(ctx context.Context, onChange func()) error {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, onChange)
	}
	<-ctx.Done()
	return ctx.Err()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serverFake is an in-memory backend: writes mutate the list that List
// serves, mimicking refetch-after-write semantics end to end.
type serverFake struct {
	mu   sync.Mutex
	subs []domain.Subscription
}

func (f *serverFake) remote() *remoteStoreMock {
	m := &remoteStoreMock{}
	m.ListFunc = func(ctx context.Context) ([]domain.Subscription, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]domain.Subscription, len(f.subs))
		copy(out, f.subs)
		return out, nil
	}
	m.CreateFunc = func(ctx context.Context, rec CreateRecord) (*domain.Subscription, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		s := domain.Subscription{ID: uuid.New(), Name: rec.Name, Price: rec.Price, Cycle: rec.Cycle}
		f.subs = append(f.subs, s)
		return &s, nil
	}
	m.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.subs {
			if s.ID == id {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				return nil
			}
		}
		return ErrNotFoundOrForbidden
	}
	m.UpdateFunc = func(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.subs {
			if f.subs[i].ID == id {
				if rec.Name != nil {
					f.subs[i].Name = *rec.Name
				}
				return &f.subs[i], nil
			}
		}
		return nil, ErrNotFoundOrForbidden
	}
	return m
}

func TestStore_BindLoadsSnapshot(t *testing.T) {
	t.Parallel()

	fake := &serverFake{subs: []domain.Subscription{{ID: uuid.New(), Name: "existing"}}}
	store := NewStore(fake.remote(), testLogger())
	defer store.Close()

	require.Equal(t, StoreUnauthenticated, store.State())

	require.NoError(t, store.Bind(context.Background()))

	assert.Equal(t, StoreReady, store.State())
	got := store.List()
	require.Len(t, got, 1)
	assert.Equal(t, "existing", got[0].Name)
}

func TestStore_CreateRefreshesBeforeReturning(t *testing.T) {
	t.Parallel()

	fake := &serverFake{}
	store := NewStore(fake.remote(), testLogger())
	defer store.Close()

	require.NoError(t, store.Bind(context.Background()))

	created, err := store.Create(context.Background(), CreateRecord{Name: "Netflix", Price: 1599, Cycle: domain.CycleMonthly})
	require.NoError(t, err)

	// No sleeping, no event loop turn: the returned call already reflects
	// the post-write list.
	got := store.List()
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}

func TestStore_CreateInvalidNeverReachesBackend(t *testing.T) {
	t.Parallel()

	fake := &serverFake{}
	remote := fake.remote()
	store := NewStore(remote, testLogger())
	defer store.Close()

	require.NoError(t, store.Bind(context.Background()))
	listCallsAfterBind := remote.listCalls.Load()

	_, err := store.Create(context.Background(), CreateRecord{Name: "   ", Price: -5})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2, "both name and price must be reported")
	assert.Zero(t, remote.createCalls.Load(), "invalid record must not reach the backend")
	assert.Equal(t, listCallsAfterBind, remote.listCalls.Load(), "no refresh may run for a rejected write")
	assert.Empty(t, store.List(), "snapshot must be unchanged")
}

func TestStore_DeleteRemovesFromSnapshot(t *testing.T) {
	t.Parallel()

	keep := domain.Subscription{ID: uuid.New(), Name: "keep"}
	drop := domain.Subscription{ID: uuid.New(), Name: "drop"}
	fake := &serverFake{subs: []domain.Subscription{keep, drop}}
	store := NewStore(fake.remote(), testLogger())
	defer store.Close()

	require.NoError(t, store.Bind(context.Background()))

	require.NoError(t, store.Delete(context.Background(), drop.ID))

	got := store.List()
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)
}

func TestStore_CloseDiscardsSnapshotImmediately(t *testing.T) {
	t.Parallel()

	fake := &serverFake{subs: []domain.Subscription{{ID: uuid.New(), Name: "private"}}}
	store := NewStore(fake.remote(), testLogger())

	require.NoError(t, store.Bind(context.Background()))

	store.Close()

	assert.Empty(t, store.List(), "snapshot must be discarded on close")
	assert.Equal(t, StoreUnauthenticated, store.State())

	// Closing again must be a no-op.
	store.Close()
}

func TestStore_StaleRefreshCannotResurrectData(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	remote := &remoteStoreMock{}
	var first atomic.Bool
	first.Store(true)
	remote.ListFunc = func(ctx context.Context) ([]domain.Subscription, error) {
		if first.CompareAndSwap(true, false) {
			return nil, nil // initial bind fetch
		}
		<-release // the slow fetch straddles Close
		return []domain.Subscription{{ID: uuid.New(), Name: "stale"}}, nil
	}
	remote.DeleteFunc = func(ctx context.Context, id uuid.UUID) error { return nil }

	store := NewStore(remote, testLogger())
	require.NoError(t, store.Bind(context.Background()))

	done := make(chan error)
	go func() { done <- store.Refresh(context.Background()) }()

	// Sign-out lands while the refresh is still in flight.
	time.Sleep(10 * time.Millisecond)
	store.Close()
	close(release)
	<-done

	assert.Empty(t, store.List(), "stale refresh must not resurrect data after close")
}

func TestStore_WatchHintTriggersRefresh(t *testing.T) {
	t.Parallel()

	fake := &serverFake{}
	remote := fake.remote()

	hint := make(chan struct{}, 1)
	remote.WatchFunc = func(ctx context.Context, onChange func()) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-hint:
				onChange()
			}
		}
	}

	store := NewStore(remote, testLogger())
	defer store.Close()

	require.NoError(t, store.Bind(context.Background()))

	// Another client writes directly to the backend, then the change hint
	// arrives.
	fake.mu.Lock()
	fake.subs = append(fake.subs, domain.Subscription{ID: uuid.New(), Name: "remote-write"})
	fake.mu.Unlock()
	hint <- struct{}{}

	deadline := time.After(2 * time.Second)
	for {
		if got := store.List(); len(got) == 1 && got[0].Name == "remote-write" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("snapshot never caught up with the change hint")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStore_CloseStopsWatch(t *testing.T) {
	t.Parallel()

	watchStopped := make(chan struct{})
	remote := &remoteStoreMock{
		ListFunc: func(ctx context.Context) ([]domain.Subscription, error) { return nil, nil },
		WatchFunc: func(ctx context.Context, onChange func()) error {
			<-ctx.Done()
			close(watchStopped)
			return ctx.Err()
		},
	}

	store := NewStore(remote, testLogger())
	require.NoError(t, store.Bind(context.Background()))

	store.Close()

	select {
	case <-watchStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("watch context was not canceled by Close")
	}
}
