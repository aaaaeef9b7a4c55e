package client

import (
	"context"
	"log/slog"
	"sync"
)

// SessionState describes the session context's lifecycle.
type SessionState string

const (
	// StateResolving: the initial session check has not completed yet.
	StateResolving SessionState = "resolving"
	StateAnonymous SessionState = "anonymous"
	StateAuthed    SessionState = "authenticated"
)

// SessionContext holds the current authenticated identity, if any, and
// notifies listeners on every change, including externally triggered ones
// such as a token refresh. It is safe for concurrent use.
type SessionContext struct {
	api AuthAPI
	log *slog.Logger

	mu        sync.Mutex
	state     SessionState
	session   *Session
	nextID    int
	listeners map[int]func(SessionState, *Session)
}

// NewSessionContext creates a session context in the Resolving state.
// Call Resolve to complete the initial check.
func NewSessionContext(api AuthAPI, logger *slog.Logger) *SessionContext {
	return &SessionContext{
		api:       api,
		log:       logger.With("component", "session"),
		state:     StateResolving,
		listeners: make(map[int]func(SessionState, *Session)),
	}
}

// State returns the current state.
func (c *SessionContext) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the active session, or nil when anonymous or resolving.
func (c *SessionContext) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnChange registers a listener invoked on every state transition. The
// returned function removes the listener; calling it more than once is safe.
func (c *SessionContext) OnChange(fn func(SessionState, *Session)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Resolve completes the initial session check. With a stored refresh token
// it attempts to restore the session; otherwise it settles on Anonymous.
// A failed restore is not an error, it just means no session.
func (c *SessionContext) Resolve(ctx context.Context, storedRefreshToken string) {
	if storedRefreshToken == "" {
		c.transition(StateAnonymous, nil)
		return
	}

	session, err := c.api.Refresh(ctx, storedRefreshToken)
	if err != nil {
		c.log.Debug("session restore failed", slog.String("error", err.Error()))
		c.transition(StateAnonymous, nil)
		return
	}

	c.transition(StateAuthed, session)
}

// SignUp registers a new account. When the backend requires email
// confirmation, the result reports PendingConfirmation and the state stays
// Anonymous; otherwise the new session becomes active.
func (c *SessionContext) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	result, err := c.api.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if result.PendingConfirmation {
		c.transition(StateAnonymous, nil)
	} else {
		c.transition(StateAuthed, result.Session)
	}

	return result, nil
}

// SignIn authenticates with email and password.
func (c *SessionContext) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.transition(StateAuthed, session)
	return session, nil
}

// SignOut ends the session. The local state transitions to Anonymous even
// if the backend call fails: a client that cannot reach the backend must
// still be able to drop its identity.
func (c *SessionContext) SignOut(ctx context.Context) error {
	err := c.api.SignOut(ctx)
	c.transition(StateAnonymous, nil)
	return err
}

// transition swaps state and notifies listeners outside the lock.
func (c *SessionContext) transition(state SessionState, session *Session) {
	c.mu.Lock()
	c.state = state
	c.session = session
	fns := make([]func(SessionState, *Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(state, session)
	}
}
