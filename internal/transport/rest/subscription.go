package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/internal/service/subscription"
)

// subscriptionService defines the minimal interface needed by SubscriptionHandler.
type subscriptionService interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Create(ctx context.Context, input subscription.CreateInput) (*domain.Subscription, error)
	Update(ctx context.Context, input subscription.UpdateInput) (*domain.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Upcoming(ctx context.Context, days int) ([]domain.Subscription, error)
	Summarize(ctx context.Context) (*subscription.Summary, error)
}

// SubscriptionHandler serves the subscription REST endpoints.
type SubscriptionHandler struct {
	svc subscriptionService
	log *slog.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(svc subscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, log: logger.With("handler", "subscription")}
}

// createRequest is the wire shape for creating a subscription. A null or
// absent renewal_date means no scheduled renewal.
type createRequest struct {
	Name        string  `json:"name"`
	PriceCents  int64   `json:"price_cents"`
	Cycle       string  `json:"cycle"`
	RenewalDate *string `json:"renewal_date"`
	Category    *string `json:"category"`
	Notes       *string `json:"notes"`
}

// updateRequest distinguishes absent fields from explicit nulls via raw
// message presence, so PATCH can clear nullable columns. A RawMessage
// stays empty for an absent key and holds the literal "null" for an
// explicit null, so len > 0 means the caller provided the field.
type updateRequest struct {
	Name        *string         `json:"name"`
	PriceCents  *int64          `json:"price_cents"`
	Cycle       *string         `json:"cycle"`
	RenewalDate json.RawMessage `json:"renewal_date"`
	Category    json.RawMessage `json:"category"`
	Notes       json.RawMessage `json:"notes"`
}

// List handles GET /v1/subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": toSubscriptionResponses(subs)})
}

// Create handles POST /v1/subscriptions.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	renewalDate, err := parseDatePtr(req.RenewalDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "renewal_date: expected YYYY-MM-DD")
		return
	}

	created, err := h.svc.Create(r.Context(), subscription.CreateInput{
		Name:        req.Name,
		Price:       domain.Cents(req.PriceCents),
		Cycle:       domain.Cycle(req.Cycle),
		RenewalDate: renewalDate,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubscriptionResponse(*created))
}

// Update handles PATCH /v1/subscriptions/{id}.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := subscription.UpdateInput{ID: id, Name: req.Name}
	if req.PriceCents != nil {
		price := domain.Cents(*req.PriceCents)
		input.Price = &price
	}
	if req.Cycle != nil {
		cycle := domain.Cycle(*req.Cycle)
		input.Cycle = &cycle
	}
	if len(req.RenewalDate) > 0 {
		input.SetRenewalDate = true
		var s *string
		if err := json.Unmarshal(req.RenewalDate, &s); err != nil {
			writeError(w, http.StatusBadRequest, "renewal_date: expected string or null")
			return
		}
		input.RenewalDate, err = parseDatePtr(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "renewal_date: expected YYYY-MM-DD")
			return
		}
	}
	if len(req.Category) > 0 {
		input.SetCategory = true
		var s *string
		if err := json.Unmarshal(req.Category, &s); err != nil {
			writeError(w, http.StatusBadRequest, "category: expected string or null")
			return
		}
		input.Category = s
	}
	if len(req.Notes) > 0 {
		input.SetNotes = true
		var s *string
		if err := json.Unmarshal(req.Notes, &s); err != nil {
			writeError(w, http.StatusBadRequest, "notes: expected string or null")
			return
		}
		input.Notes = s
	}

	updated, err := h.svc.Update(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(*updated))
}

// Delete handles DELETE /v1/subscriptions/{id}.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upcoming handles GET /v1/subscriptions/upcoming?days=N.
func (h *SubscriptionHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			writeError(w, http.StatusBadRequest, "days: expected positive integer")
			return
		}
	}

	subs, err := h.svc.Upcoming(r.Context(), days)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": toSubscriptionResponses(subs)})
}

// Summary handles GET /v1/summary.
func (h *SubscriptionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summarize(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	byCategory := make(map[string]string, len(summary.ByCategory))
	for category, amount := range summary.ByCategory {
		byCategory[category] = amount.String()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_monthly": summary.TotalMonthly.String(),
		"total_yearly":  summary.TotalYearly.String(),
		"by_category":   byCategory,
		"upcoming":      toSubscriptionResponses(summary.Upcoming),
		"count":         summary.Count,
	})
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
