package postgres

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NotifyChannel is the PostgreSQL channel carrying subscription change
// events. A trigger on the subscriptions table raises NOTIFY with the owning
// user's ID as payload; no row data travels on the channel: every event is
// a hint to re-read, not a delta to apply.
const NotifyChannel = "subscription_events"

// Listener relays PostgreSQL NOTIFY events to per-user subscribers.
// It holds one dedicated connection outside the pool and reconnects with
// backoff until its context is canceled.
type Listener struct {
	dsn string
	log *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan struct{}
}

// NewListener creates a Listener. Call Run to start receiving events.
func NewListener(dsn string, logger *slog.Logger) *Listener {
	return &Listener{
		dsn:  dsn,
		log:  logger.With("component", "pg_listener"),
		subs: make(map[uuid.UUID]map[int]chan struct{}),
	}
}

// Subscribe registers interest in change events for one user. The returned
// channel receives a signal (capacity 1, signals coalesce) whenever that
// user's subscriptions change. The cancel function releases the
// registration; calling it more than once is safe.
func (l *Listener) Subscribe(userID uuid.UUID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	if l.subs[userID] == nil {
		l.subs[userID] = make(map[int]chan struct{})
	}
	l.subs[userID][id] = ch
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs[userID], id)
			if len(l.subs[userID]) == 0 {
				delete(l.subs, userID)
			}
			l.mu.Unlock()
		})
	}

	return ch, cancel
}

// Run listens for notifications until ctx is canceled. Connection failures
// are retried with a fixed backoff; events that arrive while disconnected
// are lost, which is acceptable because subscribers re-fetch on every signal
// and writes through this process refresh synchronously anyway.
func (l *Listener) Run(ctx context.Context) {
	const backoff = 5 * time.Second

	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("listen loop failed, reconnecting",
				slog.String("error", err.Error()),
				slog.Duration("backoff", backoff))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return err
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		userID, err := uuid.Parse(n.Payload)
		if err != nil {
			l.log.Warn("notification with malformed payload", slog.String("payload", n.Payload))
			continue
		}

		l.dispatch(userID)
	}
}

func (l *Listener) dispatch(userID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range l.subs[userID] {
		select {
		case ch <- struct{}{}:
		default: // a pending signal already covers this change
		}
	}
}
