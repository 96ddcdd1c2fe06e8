// Package querybuild synthesizes search queries from task-type and topic
// selections. It is a pure algorithm package: no I/O, no clock, only the
// process-wide randomness source for ordering.
package querybuild

import (
	"math/rand/v2"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// Sort directives understood by the search backend.
const (
	// SortRandom asks the backend for a random ordering, preventing a
	// systematic bias toward whatever the backend returns first.
	SortRandom = "random"

	// SortNone leaves the backend's own relevance ordering untouched.
	SortNone = ""
)

// noTopicID is the id segment used when a query has no topic filter.
const noTopicID = "-"

// Query is one immutable synthesized search request representing a single
// (task type, topic) combination.
type Query struct {
	// ID is a pure function of the task type id and the topic id:
	// "<taskTypeID>:<topicID>" with "-" standing in for an absent topic.
	ID string

	QueryString    string
	TaskType       *domain.TaskType
	Topic          domain.Topic
	Sort           string
	RescoreProfile string

	// DebugURL is populated by the orchestrator after execution; it is the
	// only mutable field and exists purely for diagnostics.
	DebugURL string
}

// QueryID computes the query identifier for a task type and an optional
// topic. Two queries built from the same inputs always share an id.
func QueryID(taskType *domain.TaskType, topic domain.Topic) string {
	topicID := noTopicID
	if topic != nil {
		topicID = topic.ID()
	}
	return taskType.ID + ":" + topicID
}

// QueryMap is an id-keyed set of queries with an explicit iteration order.
// The order is shuffled once at build time so that whoever merges query
// results processes them in a randomized sequence; the id to query
// association itself is never touched by the shuffle.
type QueryMap struct {
	queries map[string]*Query
	order   []string
}

// newQueryMap builds a QueryMap from the given queries and shuffles the
// key order. Only the key list is shuffled; values are re-referenced, not
// rebuilt.
func newQueryMap(queries map[string]*Query) *QueryMap {
	order := make([]string, 0, len(queries))
	for id := range queries {
		order = append(order, id)
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return &QueryMap{queries: queries, order: order}
}

// Len returns the number of queries in the map.
func (m *QueryMap) Len() int { return len(m.queries) }

// Get returns the query with the given id, or nil.
func (m *QueryMap) Get(id string) *Query { return m.queries[id] }

// Order returns the randomized iteration order. Callers must not mutate
// the returned slice.
func (m *QueryMap) Order() []string { return m.order }

// Queries returns the queries in randomized order.
func (m *QueryMap) Queries() []*Query {
	out := make([]*Query, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.queries[id])
	}
	return out
}
