package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
)

const dateLayout = "2006-01-02"

// HTTPClient talks to the backend REST API. It implements both AuthAPI and
// RemoteStore, holding the current access token internally so the store
// never sees credentials.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	stream  *http.Client // no timeout, for the event stream

	mu          sync.Mutex
	accessToken string
}

// NewHTTPClient creates a client for the API at baseURL (no trailing slash).
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		stream:  &http.Client{Transport: httpClient.Transport},
	}
}

type wireCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type wireRefresh struct {
	RefreshToken string `json:"refreshToken"`
}

type wireAuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	PendingConfirmation bool `json:"pendingConfirmation"`
}

type wireSubscription struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PriceCents  int64   `json:"price_cents"`
	Cycle       string  `json:"cycle"`
	RenewalDate *string `json:"renewal_date"`
	Category    *string `json:"category"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type wireError struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

// SignUp registers a new account. When confirmation is pending no session
// is established and no token is retained.
func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var resp wireAuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", wireCredentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.PendingConfirmation {
		return &SignUpResult{PendingConfirmation: true}, nil
	}

	session, err := c.adoptSession(&resp)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{Session: session}, nil
}

// SignIn authenticates with email and password.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp wireAuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", wireCredentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adoptSession(&resp)
}

// SignOut revokes the backend session. The local token is cleared even when
// the backend call fails; a dead token is worse than a dangling server row.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)

	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()

	return err
}

// Refresh exchanges a refresh token for a fresh session.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var resp wireAuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", wireRefresh{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	return c.adoptSession(&resp)
}

func (c *HTTPClient) adoptSession(resp *wireAuthResponse) (*Session, error) {
	userID, err := uuid.Parse(resp.User.ID)
	if err != nil {
		return nil, &RemoteError{Message: "malformed user id in auth response"}
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.mu.Unlock()

	return &Session{
		UserID:       userID,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// List fetches the session user's subscriptions.
func (c *HTTPClient) List(ctx context.Context) ([]domain.Subscription, error) {
	var resp struct {
		Subscriptions []wireSubscription `json:"subscriptions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/subscriptions", nil, &resp); err != nil {
		return nil, err
	}

	subs := make([]domain.Subscription, 0, len(resp.Subscriptions))
	for _, ws := range resp.Subscriptions {
		s, err := fromWire(ws)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, nil
}

// Create adds a subscription.
func (c *HTTPClient) Create(ctx context.Context, rec CreateRecord) (*domain.Subscription, error) {
	body := map[string]any{
		"name":        rec.Name,
		"price_cents": int64(rec.Price),
		"cycle":       string(rec.Cycle),
	}
	if rec.RenewalDate != nil {
		body["renewal_date"] = rec.RenewalDate.Format(dateLayout)
	}
	if rec.Category != "" {
		body["category"] = rec.Category
	}
	if rec.Notes != "" {
		body["notes"] = rec.Notes
	}

	var resp wireSubscription
	if err := c.do(ctx, http.MethodPost, "/v1/subscriptions", body, &resp); err != nil {
		return nil, err
	}
	return fromWire(resp)
}

// Update patches a subscription. Nil fields are not sent.
func (c *HTTPClient) Update(ctx context.Context, id uuid.UUID, rec UpdateRecord) (*domain.Subscription, error) {
	body := map[string]any{}
	if rec.Name != nil {
		body["name"] = *rec.Name
	}
	if rec.Price != nil {
		body["price_cents"] = int64(*rec.Price)
	}
	if rec.Cycle != nil {
		body["cycle"] = string(*rec.Cycle)
	}
	if rec.RenewalDate != nil {
		body["renewal_date"] = rec.RenewalDate.Format(dateLayout)
	}
	if rec.Category != nil {
		body["category"] = *rec.Category
	}
	if rec.Notes != nil {
		body["notes"] = *rec.Notes
	}

	var resp wireSubscription
	if err := c.do(ctx, http.MethodPatch, "/v1/subscriptions/"+id.String(), body, &resp); err != nil {
		return nil, err
	}
	return fromWire(resp)
}

// Delete removes a subscription.
func (c *HTTPClient) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/v1/subscriptions/"+id.String(), nil, nil)
}

// Watch opens the change event stream and invokes onChange for every change
// hint until ctx is canceled. Dropped streams are reopened with backoff; a
// reconnect calls onChange once because changes may have landed while the
// stream was down.
func (c *HTTPClient) Watch(ctx context.Context, onChange func()) error {
	const backoff = 3 * time.Second

	first := true
	for {
		err := c.openStream(ctx, onChange, !first)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && isAuthErr(err) {
			return err
		}
		first = false

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *HTTPClient) openStream(ctx context.Context, onChange func(), refreshOnOpen bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/subscriptions/events", nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.responseError(resp.StatusCode, resp.Body)
	}

	if refreshOnOpen {
		onChange()
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "event: change" {
			onChange()
		}
	}
	return scanner.Err()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp.StatusCode, resp.Body)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) authorize(req *http.Request) {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *HTTPClient) responseError(status int, body io.Reader) error {
	var we wireError
	_ = json.NewDecoder(body).Decode(&we)

	switch status {
	case http.StatusUnauthorized:
		return ErrNotAuthenticated
	case http.StatusNotFound:
		return ErrNotFoundOrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(we.Fields) > 0 {
			fields := make([]domain.FieldError, 0, len(we.Fields))
			for _, f := range we.Fields {
				fields = append(fields, domain.FieldError{Field: f.Field, Message: f.Message})
			}
			return &domain.ValidationError{Errors: fields}
		}
	case http.StatusServiceUnavailable:
		return domain.ErrUnavailable
	}

	msg := we.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &RemoteError{Message: msg}
}

func isAuthErr(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

func fromWire(ws wireSubscription) (*domain.Subscription, error) {
	id, err := uuid.Parse(ws.ID)
	if err != nil {
		return nil, &RemoteError{Message: "malformed subscription id"}
	}

	s := &domain.Subscription{
		ID:       id,
		Name:     ws.Name,
		Price:    domain.Cents(ws.PriceCents),
		Cycle:    domain.Cycle(ws.Cycle),
		Category: ws.Category,
		Notes:    ws.Notes,
	}

	if ws.RenewalDate != nil {
		t, err := time.Parse(dateLayout, *ws.RenewalDate)
		if err != nil {
			return nil, &RemoteError{Message: "malformed renewal date"}
		}
		s.RenewalDate = &t
	}
	if t, err := time.Parse(time.RFC3339, ws.CreatedAt); err == nil {
		s.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, ws.UpdatedAt); err == nil {
		s.UpdatedAt = t
	}
	return s, nil
}
