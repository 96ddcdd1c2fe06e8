package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/suggest-api/internal/api/shared"
	"github.com/phrazzld/suggest-api/internal/domain"
	"github.com/phrazzld/suggest-api/internal/platform/logger"
	"github.com/phrazzld/suggest-api/internal/service/suggestion"
)

// SuggestionHandler serves the suggestion endpoint.
type SuggestionHandler struct {
	service suggestion.Service
	logger  *slog.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(service suggestion.Service, log *slog.Logger) *SuggestionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SuggestionHandler{
		service: service,
		logger:  log.With(slog.String("component", "suggestion_handler")),
	}
}

// GetSuggestions handles GET /api/suggestions. Query parameters:
// user (required), tasktypes (comma-separated, required), topics
// (comma-separated), topic_match, excluded (comma-separated titles),
// offset, limit.
func (h *SuggestionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID := r.URL.Query().Get("user")
	if userID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "user parameter is required")
		return
	}

	filters := domain.TaskSetFilters{
		TaskTypeIDs: splitParam(r.URL.Query().Get("tasktypes")),
		TopicIDs:    splitParam(r.URL.Query().Get("topics")),
		TopicMatch:  domain.TopicMatchMode(r.URL.Query().Get("topic_match")),
	}
	for _, title := range splitParam(r.URL.Query().Get("excluded")) {
		filters.ExcludedItems = append(filters.ExcludedItems, domain.ItemRef{Title: title})
	}
	if len(filters.TaskTypeIDs) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "tasktypes parameter is required")
		return
	}

	offset, err := parseIntParam(r.URL.Query().Get("offset"), 0)
	if err != nil || offset < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil || limit < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	taskSet, available, err := h.service.Suggest(r.Context(), userID, filters, offset, limit)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) || errors.Is(err, domain.ErrInvalidOffset) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "invalid filter state", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to build suggestions", err)
		return
	}

	// Every query failed: distinct from zero matches, so the caller can
	// show an error state instead of an empty state.
	if !available {
		log.Warn("search backend unavailable for suggestion request",
			slog.String("user_id", userID))
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "no data available")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskSetResponse(taskSet))
}

// splitParam splits a comma-separated query parameter, dropping empty
// segments.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIntParam parses an optional integer query parameter.
func parseIntParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
