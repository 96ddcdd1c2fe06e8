package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/phrazzld/suggest-api/internal/api/shared"
	"github.com/phrazzld/suggest-api/internal/platform/logger"
	"github.com/phrazzld/suggest-api/internal/store"
)

// RecencyHandler serves the opened-tasks endpoints backed by the recency
// cache.
type RecencyHandler struct {
	recency store.RecencyStore
	logger  *slog.Logger
}

// NewRecencyHandler creates a new RecencyHandler.
func NewRecencyHandler(recency store.RecencyStore, log *slog.Logger) *RecencyHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RecencyHandler{
		recency: recency,
		logger:  log.With(slog.String("component", "recency_handler")),
	}
}

// RecordOpened handles POST /api/opened: the UI-open event. A store
// failure is reported as success=false with status 200; the open event
// that triggered it must still proceed on the client.
func (h *RecencyHandler) RecordOpened(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req OpenedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.User == "" || req.Item == "" || req.TaskType == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "user, item and task_type are required")
		return
	}

	if err := h.recency.SetOpened(r.Context(), req.User, req.Item, req.TaskType); err != nil {
		log.Warn("failed to record opened task",
			slog.String("user_id", req.User),
			slog.String("item_id", req.Item),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, OpenedResponse{Success: false})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, OpenedResponse{Success: true})
}

// GetOpened handles GET /api/opened. On store failure it fails open to an
// empty map rather than blocking the caller.
func (h *RecencyHandler) GetOpened(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID := r.URL.Query().Get("user")
	if userID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "user parameter is required")
		return
	}

	items, err := h.recency.GetOpened(r.Context(), userID)
	if err != nil {
		log.Warn("failed to read opened tasks, failing open",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		items = map[string]string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, OpenedListResponse{Items: items})
}
