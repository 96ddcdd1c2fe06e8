package suggestion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/suggest-api/internal/domain"
	"github.com/phrazzld/suggest-api/internal/domain/querybuild"
	"github.com/phrazzld/suggest-api/internal/search"
)

// mockCatalog is a mock implementation of the catalog.Catalog interface.
type mockCatalog struct {
	taskTypes map[string]*domain.TaskType
	topics    map[string]domain.Topic
}

func newMockCatalog(t *testing.T) *mockCatalog {
	t.Helper()
	art, err := domain.NewTagTopic("art", "culture", []string{"culture.art"})
	require.NoError(t, err)
	physics, err := domain.NewSimilarityTopic("physics", []string{"Physics"})
	require.NoError(t, err)

	return &mockCatalog{
		taskTypes: map[string]*domain.TaskType{
			"copyedit": {ID: "copyedit", Difficulty: domain.DifficultyEasy, Templates: []string{"Copyedit"}},
			"links":    {ID: "links", Difficulty: domain.DifficultyEasy, Templates: []string{"Underlinked"}},
		},
		topics: map[string]domain.Topic{
			"art":     art,
			"physics": physics,
		},
	}
}

func (m *mockCatalog) ResolveTaskTypes(ids []string) []*domain.TaskType {
	var out []*domain.TaskType
	for _, id := range ids {
		if tt, ok := m.taskTypes[id]; ok {
			out = append(out, tt)
		}
	}
	return out
}

func (m *mockCatalog) ResolveTopics(ids []string) []domain.Topic {
	var out []domain.Topic
	for _, id := range ids {
		if topic, ok := m.topics[id]; ok {
			out = append(out, topic)
		}
	}
	return out
}

func (m *mockCatalog) AllTaskTypes() []*domain.TaskType { return nil }
func (m *mockCatalog) AllTopics() []domain.Topic        { return nil }

// mockSearchClient is a mock implementation of the search.Client
// interface, dispatching on query string.
type mockSearchClient struct {
	mu      sync.Mutex
	calls   int
	results map[string]*search.Result
	errs    map[string]error
}

func (m *mockSearchClient) Execute(_ context.Context, req search.Request) (*search.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err, ok := m.errs[req.Query]; ok {
		return nil, err
	}
	if result, ok := m.results[req.Query]; ok {
		return result, nil
	}
	return &search.Result{}, nil
}

// funcFilter adapts a function to the Filter interface.
type funcFilter struct {
	name    string
	applyFn func(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error)
}

func (f *funcFilter) Name() string { return f.name }
func (f *funcFilter) Apply(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
	return f.applyFn(ctx, tasks)
}

func newTestService(t *testing.T, searcher search.Client, filters ...Filter) Service {
	t.Helper()
	svc, err := NewService(
		newMockCatalog(t),
		querybuild.NewBuilder(),
		searcher,
		filters,
		Config{MaxConcurrentQueries: 2, QueryTimeout: time.Second, DefaultLimit: 20},
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestSuggest_MergesAndDeduplicates(t *testing.T) {
	// Backend for the copyedit query returns [A, B] (total 5) and for the
	// links query [B, C] (total 2). The merged set holds exactly A, B, C
	// with B tagged by only its first query's type, and the total is the
	// approximate union upper bound 7.
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit"`: {
				Hits:           []domain.ItemRef{{Title: "A"}, {Title: "B"}},
				EstimatedTotal: 5,
			},
			`hastemplate:"Underlinked"`: {
				Hits:           []domain.ItemRef{{Title: "B"}, {Title: "C"}},
				EstimatedTotal: 2,
			},
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"copyedit", "links"},
	}, 0, 20)
	require.NoError(t, err)
	assert.True(t, available)

	require.Len(t, taskSet.Tasks, 3)
	assert.Equal(t, 7, taskSet.TotalCount)

	titles := make(map[string]string)
	for _, task := range taskSet.Tasks {
		titles[task.Item.Title] = task.Type.ID
	}
	assert.Len(t, titles, 3)
	assert.Contains(t, titles, "A")
	assert.Contains(t, titles, "B")
	assert.Contains(t, titles, "C")
	assert.Equal(t, "copyedit", titles["A"])
	assert.Equal(t, "links", titles["C"])
}

func TestSuggest_DuplicateContributesTopicToKeptTask(t *testing.T) {
	// The same article satisfies both topics; the merged output holds one
	// task carrying both topic associations.
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit" articletopic:culture.art`: {
				Hits:           []domain.ItemRef{{Title: "Mona Lisa"}},
				EstimatedTotal: 1,
			},
			`hastemplate:"Copyedit" morelikethis:"Physics"`: {
				Hits:           []domain.ItemRef{{Title: "Mona Lisa"}},
				EstimatedTotal: 1,
			},
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"copyedit"},
		TopicIDs:    []string{"art", "physics"},
	}, 0, 20)
	require.NoError(t, err)
	assert.True(t, available)

	require.Len(t, taskSet.Tasks, 1)
	task := taskSet.Tasks[0]
	assert.True(t, task.HasTopic("art"))
	assert.True(t, task.HasTopic("physics"))
}

func TestSuggest_PartialBackendFailureIsSwallowed(t *testing.T) {
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit"`: {
				Hits:           []domain.ItemRef{{Title: "A"}},
				EstimatedTotal: 3,
			},
		},
		errs: map[string]error{
			`hastemplate:"Underlinked"`: search.ErrUnavailable,
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"copyedit", "links"},
	}, 0, 20)
	require.NoError(t, err)

	// One failing query must not abort the orchestration.
	assert.True(t, available)
	require.Len(t, taskSet.Tasks, 1)
	assert.Equal(t, "A", taskSet.Tasks[0].Item.Title)
	assert.Equal(t, 3, taskSet.TotalCount)
}

func TestSuggest_TotalBackendFailure(t *testing.T) {
	searcher := &mockSearchClient{
		errs: map[string]error{
			`hastemplate:"Copyedit"`:    search.ErrUnavailable,
			`hastemplate:"Underlinked"`: search.ErrUnavailable,
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"copyedit", "links"},
	}, 0, 20)

	// All queries failing is not an error: it is an empty set plus an
	// explicit "no data available" signal.
	require.NoError(t, err)
	assert.False(t, available)
	assert.Empty(t, taskSet.Tasks)
	assert.Equal(t, 0, taskSet.TotalCount)
}

func TestSuggest_UnknownIDsDegradeGracefully(t *testing.T) {
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit"`: {
				Hits:           []domain.ItemRef{{Title: "A"}},
				EstimatedTotal: 1,
			},
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"copyedit", "retired-type"},
		TopicIDs:    []string{"no-such-topic"},
	}, 0, 20)
	require.NoError(t, err)
	assert.True(t, available)

	// The echoed filters reflect what actually ran.
	assert.Equal(t, []string{"copyedit"}, taskSet.Filters.TaskTypeIDs)
	assert.Empty(t, taskSet.Filters.TopicIDs)
	require.Len(t, taskSet.Tasks, 1)
}

func TestSuggest_NoResolvedTaskTypes(t *testing.T) {
	searcher := &mockSearchClient{}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs: []string{"retired-type"},
	}, 0, 20)
	require.NoError(t, err)

	// Nothing resolved means nothing to ask the backend; this is a zero
	// match, not an outage.
	assert.True(t, available)
	assert.Empty(t, taskSet.Tasks)
	assert.Equal(t, 0, searcher.calls)
}

func TestSuggest_FilterPipeline(t *testing.T) {
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit"`: {
				Hits:           []domain.ItemRef{{Title: "A"}, {Title: "B"}, {Title: "C"}},
				EstimatedTotal: 3,
			},
		},
	}

	t.Run("filters run in registration order", func(t *testing.T) {
		var order []string
		first := &funcFilter{name: "first", applyFn: func(_ context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
			order = append(order, "first")
			return tasks[:2], nil
		}}
		second := &funcFilter{name: "second", applyFn: func(_ context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
			order = append(order, "second")
			return tasks[:1], nil
		}}

		svc := newTestService(t, searcher, first, second)
		taskSet, _, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
			TaskTypeIDs: []string{"copyedit"},
		}, 0, 20)
		require.NoError(t, err)

		assert.Equal(t, []string{"first", "second"}, order)
		require.Len(t, taskSet.Tasks, 1)
		assert.Equal(t, "A", taskSet.Tasks[0].Item.Title)
	})

	t.Run("failing filter is a pass-through", func(t *testing.T) {
		failing := &funcFilter{name: "failing", applyFn: func(_ context.Context, _ []*domain.Task) ([]*domain.Task, error) {
			return nil, errors.New("storage down")
		}}
		dropLast := &funcFilter{name: "drop_last", applyFn: func(_ context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
			return tasks[:len(tasks)-1], nil
		}}

		svc := newTestService(t, searcher, failing, dropLast)
		taskSet, _, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
			TaskTypeIDs: []string{"copyedit"},
		}, 0, 20)
		require.NoError(t, err)

		// The failing filter contributes nothing; the independent one
		// still runs.
		require.Len(t, taskSet.Tasks, 2)
	})
}

func TestSuggest_ExcludedItemsDroppedEvenIfBackendReturnsThem(t *testing.T) {
	// The query carries the negated title term, but this backend ignores
	// it and returns the excluded item anyway.
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit" -intitle:"Sandbox"`: {
				Hits:           []domain.ItemRef{{Title: "A"}, {Title: "Sandbox"}},
				EstimatedTotal: 2,
			},
		},
	}
	svc := newTestService(t, searcher)

	taskSet, available, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs:   []string{"copyedit"},
		ExcludedItems: []domain.ItemRef{{Title: "Sandbox"}},
	}, 0, 20)
	require.NoError(t, err)
	assert.True(t, available)

	require.Len(t, taskSet.Tasks, 1)
	assert.Equal(t, "A", taskSet.Tasks[0].Item.Title)
}

func TestSuggest_Pagination(t *testing.T) {
	searcher := &mockSearchClient{
		results: map[string]*search.Result{
			`hastemplate:"Copyedit"`: {
				Hits: []domain.ItemRef{
					{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}, {Title: "E"},
				},
				EstimatedTotal: 5,
			},
		},
	}
	svc := newTestService(t, searcher)
	ctx := context.Background()
	filters := domain.TaskSetFilters{TaskTypeIDs: []string{"copyedit"}}

	t.Run("middle page", func(t *testing.T) {
		taskSet, _, err := svc.Suggest(ctx, "alice", filters, 1, 2)
		require.NoError(t, err)
		require.Len(t, taskSet.Tasks, 2)
		assert.Equal(t, "B", taskSet.Tasks[0].Item.Title)
		assert.Equal(t, "C", taskSet.Tasks[1].Item.Title)
		assert.Equal(t, 1, taskSet.Offset)
		assert.Equal(t, 5, taskSet.TotalCount)
	})

	t.Run("offset past the end", func(t *testing.T) {
		taskSet, _, err := svc.Suggest(ctx, "alice", filters, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, taskSet.Tasks)
		assert.Equal(t, 5, taskSet.TotalCount)
	})

	t.Run("negative offset rejected", func(t *testing.T) {
		_, _, err := svc.Suggest(ctx, "alice", filters, -1, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidOffset)
	})
}

func TestSuggest_InvalidFilters(t *testing.T) {
	svc := newTestService(t, &mockSearchClient{})

	_, _, err := svc.Suggest(context.Background(), "alice", domain.TaskSetFilters{
		TaskTypeIDs:   []string{"copyedit"},
		ExcludedItems: []domain.ItemRef{{Title: ""}},
	}, 0, 20)

	var serviceErr *SuggestionServiceError
	assert.ErrorAs(t, err, &serviceErr)
}

func TestNewService_ValidatesDependencies(t *testing.T) {
	builder := querybuild.NewBuilder()
	searcher := &mockSearchClient{}
	cat := newMockCatalog(t)

	_, err := NewService(nil, builder, searcher, nil, Config{}, nil)
	assert.Error(t, err)

	_, err = NewService(cat, nil, searcher, nil, Config{}, nil)
	assert.Error(t, err)

	_, err = NewService(cat, builder, nil, nil, Config{}, nil)
	assert.Error(t, err)
}
