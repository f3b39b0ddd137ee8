package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/observe"
	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/game"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

// Publisher forwards the events of a command to event stream listeners.
type Publisher interface {
	Publish(ctx context.Context, id uuid.UUID, evts []events.Event) error
}

// CommandResponse is the body returned for a command.
type CommandResponse struct {
	View   game.View         `json:"view"`
	Events []events.Envelope `json:"events"`
}

// SessionHandler serves the session routes.
type SessionHandler struct {
	manager   *game.Manager
	publisher Publisher
	metrics   *observe.Metrics
	logger    *slog.Logger
}

// NewSessionHandler builds the handler. publisher and metrics may be nil.
func NewSessionHandler(manager *game.Manager, publisher Publisher, metrics *observe.Metrics, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{manager: manager, publisher: publisher, metrics: metrics, logger: logger}
}

// Register adds the session routes to mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/sessions", h.create)
	mux.HandleFunc("GET /v1/sessions/{id}", h.read)
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.delete)
	mux.HandleFunc("POST /v1/sessions/{id}/commands", h.command)
}

func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	h.logger.Info("Session created", "session_id", s.ID())
	writeJSON(w, h.logger, http.StatusCreated, s.View())
}

func (h *SessionHandler) read(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s.View())
}

func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Session not found")
			return
		}
		h.logger.Error("Failed to delete session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) command(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd game.Command
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid command body: "+err.Error())
		return
	}

	log := logger.WithSession(h.logger, s.ID())
	start := time.Now()
	res, err := s.Execute(r.Context(), cmd)
	if h.metrics != nil {
		h.metrics.RecordCommand(r.Context(), cmd.Type, time.Since(start))
	}
	if err != nil {
		status := commandStatus(err)
		if status == http.StatusInternalServerError {
			logger.WithError(log, err).Error("Command failed", "type", cmd.Type)
		}
		writeError(w, h.logger, status, err.Error())
		return
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(r.Context(), s.ID(), res.Events); err != nil {
			logger.WithError(log, err).Warn("Failed to broadcast events")
		}
	}
	writeJSON(w, h.logger, http.StatusOK, CommandResponse{
		View:   res.View,
		Events: events.EncodeAll(res.Events),
	})
}

func commandStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidCommand),
		errors.Is(err, game.ErrUnknownHotspot),
		errors.Is(err, game.ErrNotHeld):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrHotspotDisabled),
		errors.Is(err, game.ErrBusy),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *SessionHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", r.PathValue("id"), "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id, ok := h.parseID(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.manager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Session not found")
			return nil, false
		}
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	return s, true
}
