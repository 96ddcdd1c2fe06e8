// Package search defines the contract for the external full-text search
// backend and provides an HTTP client implementation.
package search

import (
	"context"
	"errors"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// Common search errors.
var (
	// ErrUnavailable is returned when the backend cannot be reached or
	// answers with a server error. The orchestrator treats it like any
	// other per-query failure.
	ErrUnavailable = errors.New("search backend unavailable")

	// ErrBadRequest is returned when the backend rejects the query string.
	ErrBadRequest = errors.New("search backend rejected query")
)

// Request describes one search call.
type Request struct {
	// Query is the full query string in the backend's grammar.
	Query string

	// Sort is an optional sort directive ("random" or empty for the
	// backend's own relevance ordering).
	Sort string

	// RescoreProfile optionally names a backend rescore profile.
	RescoreProfile string

	// Limit caps the number of hits returned for this query.
	Limit int
}

// Result is one search response.
type Result struct {
	// Hits are the matching content items in the backend's returned
	// order.
	Hits []domain.ItemRef

	// EstimatedTotal is the backend's estimate of all matching items,
	// typically larger than len(Hits).
	EstimatedTotal int

	// DebugURL, when present, points at the backend's own view of this
	// query for diagnostics.
	DebugURL string
}

// Client executes search queries against the backend. Implementations
// must honor context cancellation; the orchestrator applies a per-query
// timeout through the context.
type Client interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
