package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/suggest-api/internal/api"
	apiMiddleware "github.com/phrazzld/suggest-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	if len(app.config.Server.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: app.config.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	suggestionHandler := api.NewSuggestionHandler(app.suggestions, app.logger)
	recencyHandler := api.NewRecencyHandler(app.recencyStore, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalog, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/suggestions", suggestionHandler.GetSuggestions)
		r.Post("/opened", recencyHandler.RecordOpened)
		r.Get("/opened", recencyHandler.GetOpened)
		r.Get("/catalog", catalogHandler.GetCatalog)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
