package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/subtally/subtally/pkg/ctxutil"
)

// changeFeed delivers per-user change signals. Satisfied by postgres.Listener.
type changeFeed interface {
	Subscribe(userID uuid.UUID) (<-chan struct{}, func())
}

// EventsHandler streams subscription change events over server-sent events.
// Events carry no payload: each one tells the client its cached list may be
// stale and should be re-fetched.
type EventsHandler struct {
	feed      changeFeed
	log       *slog.Logger
	heartbeat time.Duration
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(feed changeFeed, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		feed:      feed,
		log:       logger.With("handler", "events"),
		heartbeat: 25 * time.Second,
	}
}

// Stream handles GET /v1/subscriptions/events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The server's write timeout would sever long-lived streams.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.log.Warn("clear write deadline", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, release := h.feed.Subscribe(userID)
	defer release()

	// Confirm the stream before the first change arrives so clients can
	// tell an open stream from a hung request.
	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-events:
			fmt.Fprint(w, "event: change\ndata: {}\n\n")
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
