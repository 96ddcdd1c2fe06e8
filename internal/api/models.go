// Package api implements the HTTP handlers for the suggestion engine.
package api

import (
	"github.com/phrazzld/suggest-api/internal/domain"
)

// TaskResponse is the wire shape of one suggested task.
type TaskResponse struct {
	Title      string   `json:"title"`
	TaskType   string   `json:"task_type"`
	Difficulty string   `json:"difficulty,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

// TaskSetResponse is the wire shape of a suggestion page.
type TaskSetResponse struct {
	Tasks      []TaskResponse        `json:"tasks"`
	TotalCount int                   `json:"total_count"`
	Offset     int                   `json:"offset"`
	Filters    domain.TaskSetFilters `json:"filters"`
}

// newTaskSetResponse flattens a domain TaskSet for the wire.
func newTaskSetResponse(ts *domain.TaskSet) TaskSetResponse {
	tasks := make([]TaskResponse, 0, len(ts.Tasks))
	for _, task := range ts.Tasks {
		tr := TaskResponse{
			Title:    task.Item.Title,
			TaskType: task.Type.ID,
		}
		if task.Type.Difficulty != "" {
			tr.Difficulty = string(task.Type.Difficulty)
		}
		for _, ts := range task.Topics {
			tr.Topics = append(tr.Topics, ts.Topic.ID())
		}
		tasks = append(tasks, tr)
	}
	return TaskSetResponse{
		Tasks:      tasks,
		TotalCount: ts.TotalCount,
		Offset:     ts.Offset,
		Filters:    ts.Filters,
	}
}

// OpenedRequest is the body of the UI-open event.
type OpenedRequest struct {
	User     string `json:"user"`
	Item     string `json:"item"`
	TaskType string `json:"task_type"`
}

// OpenedResponse reports whether the open event was recorded. A false
// success is non-fatal: the UI-open that triggered it proceeds anyway.
type OpenedResponse struct {
	Success bool `json:"success"`
}

// OpenedListResponse is the user's surviving opened-item map.
type OpenedListResponse struct {
	Items map[string]string `json:"items"`
}

// CatalogTopicResponse is the wire shape of one listable topic.
type CatalogTopicResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Group string `json:"group,omitempty"`
}

// CatalogResponse lists the available task types and topics.
type CatalogResponse struct {
	TaskTypes []*domain.TaskType     `json:"task_types"`
	Topics    []CatalogTopicResponse `json:"topics"`
}
