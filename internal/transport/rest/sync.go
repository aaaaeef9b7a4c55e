package rest

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/internal/renewal"
)

// renewalLister backs the cron sync endpoint with a cross-user window query.
type renewalLister interface {
	RenewingWithin(ctx context.Context, days int) ([]domain.Subscription, error)
}

// SyncHandler serves the scheduler-invoked renewal sweep. It is not a user
// endpoint: callers authenticate with a shared cron secret, not a JWT.
type SyncHandler struct {
	svc        renewalLister
	log        *slog.Logger
	cronSecret string
	windowDays int
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(svc renewalLister, cronSecret string, windowDays int, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		svc:        svc,
		log:        logger.With("handler", "sync"),
		cronSecret: cronSecret,
		windowDays: windowDays,
	}
}

type syncSubscription struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RenewalDate *string `json:"renewal_date"`
	Price       string  `json:"price"`
}

// Sync handles POST /sync-renewals.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subs, err := h.svc.RenewingWithin(r.Context(), h.windowDays)
	if err != nil {
		h.log.Error("renewal sweep failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	users := make(map[uuid.UUID]struct{}, len(subs))
	out := make([]syncSubscription, 0, len(subs))
	for _, s := range subs {
		users[s.UserID] = struct{}{}

		var date *string
		if s.RenewalDate != nil {
			formatted := s.RenewalDate.Format(dateLayout)
			date = &formatted
		}
		out = append(out, syncSubscription{
			ID:          s.ID.String(),
			Name:        s.Name,
			RenewalDate: date,
			Price:       renewal.FromCents(s.Price).String(),
		})
	}

	h.log.Info("renewal sweep complete",
		slog.Int("subscriptions", len(out)),
		slog.Int("users", len(users)))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"count":         len(out),
		"users":         len(users),
		"subscriptions": out,
	})
}

func (h *SyncHandler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) == 1
}
