package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/config"
	"github.com/subtally/subtally/internal/transport/middleware"
)

// tokenValidator resolves a bearer token into a user ID.
type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Auth          *AuthHandler
	Subscriptions *SubscriptionHandler
	Events        *EventsHandler
	Sync          *SyncHandler
	Webhook       *WebhookHandler
	Health        *HealthHandler

	Validator tokenValidator
	Logger    *slog.Logger
	Limiter   *middleware.RateLimiter
}

// NewRouter builds the HTTP routing table with the middleware stack applied.
func NewRouter(deps RouterDeps, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Probes stay outside auth so orchestrators can reach them.
	mux.HandleFunc("GET /healthz", deps.Health.Live)
	mux.HandleFunc("GET /readyz", deps.Health.Ready)

	// Credential endpoints get their own rate limit.
	credential := func(h http.HandlerFunc) http.Handler {
		if deps.Limiter != nil && cfg.RateLimit.Enabled {
			return deps.Limiter.Limit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)(h)
		}
		return h
	}
	mux.Handle("POST /v1/auth/register", credential(deps.Auth.Register))
	mux.Handle("POST /v1/auth/login", credential(deps.Auth.Login))
	mux.Handle("POST /v1/auth/refresh", credential(deps.Auth.Refresh))
	mux.Handle("POST /v1/auth/logout", middleware.RequireAuth(http.HandlerFunc(deps.Auth.Logout)))

	// Everything under /v1/subscriptions is user-scoped.
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	mux.Handle("GET /v1/subscriptions", authed(deps.Subscriptions.List))
	mux.Handle("POST /v1/subscriptions", authed(deps.Subscriptions.Create))
	mux.Handle("PATCH /v1/subscriptions/{id}", authed(deps.Subscriptions.Update))
	mux.Handle("DELETE /v1/subscriptions/{id}", authed(deps.Subscriptions.Delete))
	mux.Handle("GET /v1/subscriptions/upcoming", authed(deps.Subscriptions.Upcoming))
	mux.Handle("GET /v1/subscriptions/events", authed(deps.Events.Stream))
	mux.Handle("GET /v1/summary", authed(deps.Subscriptions.Summary))

	// Scheduler and integration entry points check their own method so
	// wrong verbs get 405 with a JSON body.
	mux.HandleFunc("/sync-renewals", deps.Sync.Sync)
	mux.HandleFunc("/webhook-proxy", deps.Webhook.Proxy)

	return middleware.Chain(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(deps.Validator),
	)(mux)
}
