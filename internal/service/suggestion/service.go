// Package suggestion orchestrates the newcomer task suggestion pipeline:
// it resolves the caller's filter state, synthesizes and dispatches search
// queries, merges and deduplicates the hits, runs the eligibility filter
// pipeline, and paginates the result.
package suggestion

import (
	"context"
	"fmt"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// SuggestionServiceError is a custom error type for suggestion service
// errors.
type SuggestionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SuggestionServiceError.
func (e *SuggestionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("suggestion service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("suggestion service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SuggestionServiceError) Unwrap() error {
	return e.Err
}

// NewSuggestionServiceError creates a new SuggestionServiceError.
func NewSuggestionServiceError(operation, message string, err error) *SuggestionServiceError {
	return &SuggestionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Filter is a pluggable post-search eligibility check. Filters run in
// registration order; each receives the current task list and returns a
// possibly-smaller one. A filter returning an error is treated as a
// pass-through for that filter only, since filters guard orthogonal
// concerns and one failing must not block independent ones; the failure
// is logged and counted for observability.
// Version: 1.0
type Filter interface {
	// Name identifies the filter in logs and metrics.
	Name() string

	// Apply returns the subset of tasks that pass this filter, in input
	// order.
	Apply(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error)
}

// Service turns a caller's filter state into a paginated TaskSet.
// Version: 1.0
type Service interface {
	// Suggest returns the page [offset, offset+limit) of suggested tasks
	// for the user. The boolean reports backend availability: false means
	// every synthesized query failed, which callers may surface as an
	// error state distinct from an empty result.
	Suggest(
		ctx context.Context,
		userID string,
		filters domain.TaskSetFilters,
		offset, limit int,
	) (*domain.TaskSet, bool, error)
}
