package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/subtally/subtally/internal/domain"
)

// dateLayout is the wire format for calendar dates (no time component).
const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors to HTTP status codes. ErrNotFound
// covers both missing and foreign records; the 404 is intentionally
// ambiguous. Unexpected errors are logged and reduced to a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, validationBody(ve))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "backend unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func validationBody(ve *domain.ValidationError) map[string]any {
	fields := make([]map[string]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, map[string]string{"field": fe.Field, "message": fe.Message})
	}
	return map[string]any{"error": "validation failed", "fields": fields}
}

// subscriptionResponse is the wire shape of a subscription.
type subscriptionResponse struct {
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

func toSubscriptionResponse(s domain.Subscription) subscriptionResponse {
	resp := subscriptionResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		PriceCents: int64(s.Price),
		Cycle:      s.Cycle.String(),
		Category:   s.Category,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.RenewalDate != nil {
		d := s.RenewalDate.Format(dateLayout)
		resp.RenewalDate = &d
	}
	return resp
}

func toSubscriptionResponses(subs []domain.Subscription) []subscriptionResponse {
	out := make([]subscriptionResponse, len(subs))
	for i, s := range subs {
		out[i] = toSubscriptionResponse(s)
	}
	return out
}
