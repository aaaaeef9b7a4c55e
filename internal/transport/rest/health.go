package rest

import (
	"context"
	"net/http"
	"time"
)

// pinger reports backing-store reachability. Satisfied by pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db pinger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. It fails when the database is unreachable so
// load balancers stop routing before requests start erroring.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
