// Package catalog resolves requested task-type and topic identifiers into
// domain objects. The catalog is the only source of truth for which task
// types and topics exist; unknown ids degrade gracefully instead of
// failing a request.
package catalog

import "github.com/phrazzld/suggest-api/internal/domain"

// Catalog resolves identifiers supplied by clients. Unknown ids are
// dropped silently from the resolved set, so a stale client-side filter
// degrades to fewer results rather than an error.
// Version: 1.0
type Catalog interface {
	// ResolveTaskTypes returns the task types matching the given ids, in
	// the order requested, skipping unknown ids.
	ResolveTaskTypes(ids []string) []*domain.TaskType

	// ResolveTopics returns the topics matching the given ids, in the
	// order requested, skipping unknown ids. Only catalog-eligible
	// variants are ever returned.
	ResolveTopics(ids []string) []domain.Topic

	// AllTaskTypes lists every registered task type.
	AllTaskTypes() []*domain.TaskType

	// AllTopics lists every registered topic. Raw single-tag topics are
	// internal-only and never appear here.
	AllTopics() []domain.Topic
}
