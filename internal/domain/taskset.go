package domain

// TopicMatchMode selects how multiple requested topics combine. The
// pipeline currently treats every accepted mode as any-of; MatchModeStrategy
// is validated and echoed so callers can round-trip it, but it does not yet
// change which items qualify.
type TopicMatchMode string

// Supported topic match modes. MatchModeAny is the default: an item
// matching any requested topic qualifies.
const (
	MatchModeAny      TopicMatchMode = "any-of"
	MatchModeStrategy TopicMatchMode = "strategy"
)

// TaskSetFilters is the caller-supplied filter state. It is echoed back on
// every TaskSet so the caller can resubmit it unchanged as an opaque
// pagination token.
type TaskSetFilters struct {
	TaskTypeIDs   []string       `json:"task_types"`
	TopicIDs      []string       `json:"topics,omitempty"`
	TopicMatch    TopicMatchMode `json:"topic_match,omitempty"`
	ExcludedItems []ItemRef      `json:"excluded_items,omitempty"`
}

// Validate checks the filter state at the service boundary. Excluded item
// references are validated eagerly rather than threaded through untyped.
func (f *TaskSetFilters) Validate() error {
	for _, ref := range f.ExcludedItems {
		if err := ref.Validate(); err != nil {
			return NewValidationError("excluded_items", "empty item reference", err)
		}
	}
	switch f.TopicMatch {
	case "", MatchModeAny, MatchModeStrategy:
	default:
		return NewValidationError("topic_match", "unknown match mode", ErrValidation)
	}
	return nil
}

// TaskSet is an ordered, finite result of the suggestion pipeline. It is
// consumed once per request; no server-side cursor survives between
// requests, so callers resupply Offset to page.
type TaskSet struct {
	Tasks []*Task `json:"tasks"`

	// TotalCount is the backend's estimate of all matching items. It is an
	// approximate upper bound and may exceed len(Tasks).
	TotalCount int `json:"total_count"`

	Offset  int            `json:"offset"`
	Filters TaskSetFilters `json:"filters"`
}

// NewTaskSet builds a TaskSet, enforcing its invariants.
func NewTaskSet(tasks []*Task, totalCount, offset int, filters TaskSetFilters) (*TaskSet, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if totalCount < len(tasks) {
		// The estimate is an upper bound; never report fewer than the
		// items actually returned.
		totalCount = len(tasks)
	}
	return &TaskSet{
		Tasks:      tasks,
		TotalCount: totalCount,
		Offset:     offset,
		Filters:    filters,
	}, nil
}
