package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/suggest-api/internal/catalog"
	"github.com/phrazzld/suggest-api/internal/config"
	"github.com/phrazzld/suggest-api/internal/domain/querybuild"
	"github.com/phrazzld/suggest-api/internal/platform/memcache"
	"github.com/phrazzld/suggest-api/internal/platform/postgres"
	"github.com/phrazzld/suggest-api/internal/search"
	"github.com/phrazzld/suggest-api/internal/service/suggestion"
	"github.com/phrazzld/suggest-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	catalog      catalog.Catalog
	recencyStore store.RecencyStore
	searchClient search.Client
	suggestions  suggestion.Service
}

// newApplication creates a new application instance with all dependencies
// initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Catalog of available task types and topics.
	registry, err := catalog.LoadRegistry(cfg.Suggestion.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	app.catalog = registry
	logger.Info("catalog loaded",
		"task_types", len(registry.AllTaskTypes()),
		"topics", len(registry.AllTopics()))

	// Recency store backend.
	ttl := time.Duration(cfg.Suggestion.RecencyTTLHours) * time.Hour
	switch cfg.Database.Backend {
	case "postgres":
		db, err := openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(db, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.db = db
		app.recencyStore = postgres.NewRecencyStore(db, ttl, logger)
	case "memory":
		app.recencyStore = memcache.NewRecencyStore(ttl)
		logger.Warn("using in-process recency store; opened-task state will not survive restarts")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Database.Backend)
	}

	// Search backend client.
	app.searchClient, err = search.NewHTTPClient(
		cfg.Search.BaseURL,
		time.Duration(cfg.Search.RequestTimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search client: %w", err)
	}

	// Suggestion pipeline with its eligibility filters.
	recencyFilter, err := suggestion.NewRecencyFilter(app.recencyStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recency filter: %w", err)
	}

	app.suggestions, err = suggestion.NewService(
		app.catalog,
		querybuild.NewBuilderWithRescoreProfile(cfg.Suggestion.RescoreProfile),
		app.searchClient,
		[]suggestion.Filter{recencyFilter},
		suggestion.Config{
			MaxConcurrentQueries: cfg.Suggestion.MaxConcurrentQueries,
			QueryTimeout:         time.Duration(cfg.Suggestion.QueryTimeoutSeconds) * time.Second,
			DefaultLimit:         cfg.Suggestion.DefaultLimit,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize suggestion service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// openDatabase connects to Postgres and verifies the connection.
func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
