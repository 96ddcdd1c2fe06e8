package catalog

import (
	"fmt"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// Registry is an in-memory Catalog built once at startup. It is immutable
// after construction and safe for concurrent use.
type Registry struct {
	taskTypes     map[string]*domain.TaskType
	taskTypeOrder []string
	topics        map[string]domain.Topic
	topicOrder    []string
}

// NewRegistry builds a Registry from the given task types and topics.
// Duplicate ids and non-catalog topic variants are rejected: the catalog
// is operator-curated and a bad entry is a deployment error, not a
// runtime condition.
func NewRegistry(taskTypes []*domain.TaskType, topics []domain.Topic) (*Registry, error) {
	r := &Registry{
		taskTypes: make(map[string]*domain.TaskType, len(taskTypes)),
		topics:    make(map[string]domain.Topic, len(topics)),
	}

	for _, tt := range taskTypes {
		if err := tt.Validate(); err != nil {
			return nil, fmt.Errorf("invalid task type: %w", err)
		}
		if _, exists := r.taskTypes[tt.ID]; exists {
			return nil, fmt.Errorf("duplicate task type id %q", tt.ID)
		}
		r.taskTypes[tt.ID] = tt
		r.taskTypeOrder = append(r.taskTypeOrder, tt.ID)
	}

	for _, topic := range topics {
		if !domain.IsCatalogTopic(topic) {
			return nil, fmt.Errorf("topic %q is not catalog-eligible", topic.ID())
		}
		if _, exists := r.topics[topic.ID()]; exists {
			return nil, fmt.Errorf("duplicate topic id %q", topic.ID())
		}
		r.topics[topic.ID()] = topic
		r.topicOrder = append(r.topicOrder, topic.ID())
	}

	return r, nil
}

// ResolveTaskTypes implements the Catalog interface.
func (r *Registry) ResolveTaskTypes(ids []string) []*domain.TaskType {
	resolved := make([]*domain.TaskType, 0, len(ids))
	for _, id := range ids {
		if tt, ok := r.taskTypes[id]; ok {
			resolved = append(resolved, tt)
		}
	}
	return resolved
}

// ResolveTopics implements the Catalog interface.
func (r *Registry) ResolveTopics(ids []string) []domain.Topic {
	resolved := make([]domain.Topic, 0, len(ids))
	for _, id := range ids {
		if topic, ok := r.topics[id]; ok {
			resolved = append(resolved, topic)
		}
	}
	return resolved
}

// AllTaskTypes implements the Catalog interface.
func (r *Registry) AllTaskTypes() []*domain.TaskType {
	out := make([]*domain.TaskType, 0, len(r.taskTypeOrder))
	for _, id := range r.taskTypeOrder {
		out = append(out, r.taskTypes[id])
	}
	return out
}

// AllTopics implements the Catalog interface.
func (r *Registry) AllTopics() []domain.Topic {
	out := make([]domain.Topic, 0, len(r.topicOrder))
	for _, id := range r.topicOrder {
		out = append(out, r.topics[id])
	}
	return out
}
