package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/suggest-api/internal/api/shared"
	"github.com/phrazzld/suggest-api/internal/catalog"
	"github.com/phrazzld/suggest-api/internal/domain"
)

// CatalogHandler exposes the available task types and topics so clients
// can build their filter UI.
type CatalogHandler struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat catalog.Catalog, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		catalog: cat,
		logger:  log.With(slog.String("component", "catalog_handler")),
	}
}

// GetCatalog handles GET /api/catalog.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	topics := h.catalog.AllTopics()
	topicResponses := make([]CatalogTopicResponse, 0, len(topics))
	for _, topic := range topics {
		topicResponses = append(topicResponses, newCatalogTopicResponse(topic))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CatalogResponse{
		TaskTypes: h.catalog.AllTaskTypes(),
		Topics:    topicResponses,
	})
}

// newCatalogTopicResponse maps a topic variant onto its wire shape.
func newCatalogTopicResponse(topic domain.Topic) CatalogTopicResponse {
	resp := CatalogTopicResponse{ID: topic.ID()}
	switch t := topic.(type) {
	case *domain.TagTopic:
		resp.Kind = "tags"
		resp.Group = t.Group
	case *domain.SimilarityTopic:
		resp.Kind = "similarity"
	}
	return resp
}
