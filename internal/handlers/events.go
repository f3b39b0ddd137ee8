package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/internal/broadcast"
)

const keepaliveInterval = 30 * time.Second

// EventsHandler streams the events of a session as Server-Sent Events.
type EventsHandler struct {
	broadcaster *broadcast.Broadcaster
	logger      *slog.Logger
	keepalive   time.Duration
}

func NewEventsHandler(b *broadcast.Broadcaster, logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{broadcaster: b, logger: logger, keepalive: keepaliveInterval}
}

// ServeHTTP handles GET /v1/events/sessions/{id}.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.logger, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ctx := r.Context()
	pubsub := h.broadcaster.Subscribe(ctx, id)
	defer func() {
		if err := pubsub.Close(); err != nil {
			h.logger.Error("Failed to close pubsub", "error", err)
		}
	}()
	// Wait for the subscription so no event published after the
	// "connected" frame is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Error("Failed to subscribe", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}

	h.logger.Info("SSE connection established", "session_id", id, "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	h.send(w, "connected", []byte(fmt.Sprintf(`{"session_id":%q}`, id.String())))
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()
	msgs := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("SSE client disconnected", "session_id", id)
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var m broadcast.Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				h.logger.Error("Failed to unmarshal events", "error", err, "payload", msg.Payload)
				continue
			}
			for _, env := range m.Events {
				data := []byte(env.Data)
				if len(data) == 0 {
					data = []byte("{}")
				}
				h.send(w, string(env.Name), data)
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				h.logger.Error("Failed to write keepalive", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *EventsHandler) send(w http.ResponseWriter, name string, data []byte) {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		h.logger.Error("Failed to write event", "event", name, "error", err)
	}
}
