package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WebhookHandler accepts webhook-style action requests from external
// callers. It validates the action and acknowledges it; side effects hang
// off the acknowledged actions as integrations land.
type WebhookHandler struct {
	log *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{log: logger.With("handler", "webhook")}
}

type webhookRequest struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

// knownActions lists the actions the proxy will acknowledge.
var knownActions = map[string]struct{}{
	"process_webhook":   {},
	"external_api_call": {},
}

// Proxy handles POST /webhook-proxy.
func (h *WebhookHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := knownActions[req.Action]; !ok {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	h.log.Info("webhook action accepted", slog.String("action", req.Action))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"action":  req.Action,
	})
}
