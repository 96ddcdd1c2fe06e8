package suggestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/suggest-api/internal/catalog"
	"github.com/phrazzld/suggest-api/internal/domain"
	"github.com/phrazzld/suggest-api/internal/domain/querybuild"
	"github.com/phrazzld/suggest-api/internal/platform/logger"
	"github.com/phrazzld/suggest-api/internal/search"
)

// Config tunes the orchestrator.
type Config struct {
	// MaxConcurrentQueries bounds the number of in-flight backend calls
	// per request. If zero or negative, defaults to 4.
	MaxConcurrentQueries int

	// QueryTimeout is the per-query deadline. A query exceeding it is
	// treated exactly like a failed query. If zero, defaults to 5s.
	QueryTimeout time.Duration

	// DefaultLimit is the page size used when the caller passes a
	// non-positive limit.
	DefaultLimit int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentQueries: 4,
		QueryTimeout:         5 * time.Second,
		DefaultLimit:         20,
	}
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	catalog  catalog.Catalog
	builder  *querybuild.Builder
	searcher search.Client
	filters  []Filter
	config   Config
	logger   *slog.Logger
}

// NewService creates a suggestion Service. Filters run in the order
// given. It returns an error if any of the required dependencies are nil.
func NewService(
	cat catalog.Catalog,
	builder *querybuild.Builder,
	searcher search.Client,
	filters []Filter,
	cfg Config,
	log *slog.Logger,
) (Service, error) {
	if cat == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if builder == nil {
		return nil, domain.NewValidationError("builder", "cannot be nil", domain.ErrValidation)
	}
	if searcher == nil {
		return nil, domain.NewValidationError("searcher", "cannot be nil", domain.ErrValidation)
	}
	if cfg.MaxConcurrentQueries <= 0 {
		cfg.MaxConcurrentQueries = DefaultConfig().MaxConcurrentQueries
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultConfig().QueryTimeout
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		catalog:  cat,
		builder:  builder,
		searcher: searcher,
		filters:  filters,
		config:   cfg,
		logger:   log.With(slog.String("component", "suggestion_service")),
	}, nil
}

// queryOutcome holds one query's backend response.
type queryOutcome struct {
	result *search.Result
}

// Suggest implements the Service interface.
func (s *serviceImpl) Suggest(
	ctx context.Context,
	userID string,
	filters domain.TaskSetFilters,
	offset, limit int,
) (*domain.TaskSet, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := filters.Validate(); err != nil {
		return nil, true, NewSuggestionServiceError("suggest", "invalid filters", err)
	}
	if offset < 0 {
		return nil, true, NewSuggestionServiceError("suggest", "invalid offset", domain.ErrInvalidOffset)
	}
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}

	// Resolve ids through the catalog; unknown ids degrade silently so a
	// stale client-supplied filter narrows the result instead of failing
	// the request.
	taskTypes := s.catalog.ResolveTaskTypes(filters.TaskTypeIDs)
	topics := s.catalog.ResolveTopics(filters.TopicIDs)
	resolved := resolveFilters(filters, taskTypes, topics)

	if len(taskTypes) == 0 {
		log.Debug("no task types resolved, returning empty set",
			slog.Any("requested", filters.TaskTypeIDs))
		taskSet, err := domain.NewTaskSet(nil, 0, offset, resolved)
		return taskSet, true, err
	}

	queries, err := s.builder.Build(taskTypes, topics, filters.ExcludedItems)
	if err != nil {
		return nil, true, NewSuggestionServiceError("suggest", "query synthesis failed", err)
	}

	outcomes, failures := s.dispatch(ctx, userID, queries)

	if len(outcomes) == 0 {
		log.Warn("all suggestion queries failed",
			slog.Int("query_count", queries.Len()),
			slog.Int("failure_count", failures))
		taskSet, err := domain.NewTaskSet(nil, 0, offset, resolved)
		return taskSet, false, err
	}
	if failures > 0 {
		log.Info("some suggestion queries failed",
			slog.Int("query_count", queries.Len()),
			slog.Int("failure_count", failures))
	}

	tasks, totalCount := s.merge(queries, outcomes)
	tasks = s.runFilters(WithUserID(ctx, userID), tasks, s.requestFilters(filters))

	page := paginate(tasks, offset, limit)
	taskSet, err := domain.NewTaskSet(page, totalCount, offset, resolved)
	if err != nil {
		return nil, true, NewSuggestionServiceError("suggest", "failed to build task set", err)
	}

	log.Debug("suggestion pipeline completed",
		slog.Int("query_count", queries.Len()),
		slog.Int("merged_count", len(tasks)),
		slog.Int("page_count", len(page)),
		slog.Int("total_count", taskSet.TotalCount))
	return taskSet, true, nil
}

// dispatch executes every synthesized query against the search backend on
// a bounded worker pool. Calls are independent with no ordering
// requirement; a failing or timed-out query is logged and skipped.
func (s *serviceImpl) dispatch(ctx context.Context, userID string, queries *querybuild.QueryMap) (map[string]queryOutcome, int) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make(map[string]queryOutcome, queries.Len())
		failures int
	)
	sem := make(chan struct{}, s.config.MaxConcurrentQueries)

	for _, query := range queries.Queries() {
		wg.Add(1)
		go func(q *querybuild.Query) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			qctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
			defer cancel()

			result, err := s.searcher.Execute(qctx, search.Request{
				Query:          q.QueryString,
				Sort:           q.Sort,
				RescoreProfile: q.RescoreProfile,
				Limit:          s.perQueryLimit(),
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				log.Warn("suggestion query failed",
					slog.String("query_id", q.ID),
					slog.String("user_id", userID),
					slog.String("error", err.Error()))
				return
			}
			q.DebugURL = result.DebugURL
			outcomes[q.ID] = queryOutcome{result: result}
		}(query)
	}
	wg.Wait()

	return outcomes, failures
}

// perQueryLimit is how many hits each query requests from the backend.
// Every query can in principle supply the whole page, so each asks for a
// full page plus headroom for dedup and filter losses.
func (s *serviceImpl) perQueryLimit() int {
	return s.config.DefaultLimit * 2
}

// merge combines per-query hits into one task list in the randomized
// query order, within a query in the backend's returned order. Hits are
// deduplicated by content-item identity: the first occurrence wins and a
// later duplicate contributes its topic association to the kept task.
// The returned total is the sum of per-query backend estimates, an
// approximate upper bound on the union size.
func (s *serviceImpl) merge(queries *querybuild.QueryMap, outcomes map[string]queryOutcome) ([]*domain.Task, int) {
	var (
		tasks      []*domain.Task
		totalCount int
		seen       = make(map[string]*domain.Task)
	)

	for _, id := range queries.Order() {
		outcome, ok := outcomes[id]
		if !ok {
			continue
		}
		query := queries.Get(id)
		totalCount += outcome.result.EstimatedTotal

		for _, hit := range outcome.result.Hits {
			if existing, dup := seen[hit.Title]; dup {
				if query.Topic != nil {
					existing.AddTopic(query.Topic, 0)
				}
				continue
			}
			task, err := domain.NewTask(hit, query.TaskType)
			if err != nil {
				// Backend returned a hit without identity; skip it.
				continue
			}
			if query.Topic != nil {
				task.AddTopic(query.Topic, 0)
			}
			seen[hit.Title] = task
			tasks = append(tasks, task)
		}
	}

	return tasks, totalCount
}

// requestFilters extends the registered filters with per-request ones.
// The exclusion term already narrows each query; the filter re-checks the
// merged output in case the backend ignored the negated term.
func (s *serviceImpl) requestFilters(filters domain.TaskSetFilters) []Filter {
	if len(filters.ExcludedItems) == 0 {
		return s.filters
	}
	combined := make([]Filter, 0, len(s.filters)+1)
	combined = append(combined, s.filters...)
	return append(combined, NewExclusionFilter(filters.ExcludedItems))
}

// runFilters applies the eligibility filters in order. A filter that
// fails is a pass-through for that filter only.
func (s *serviceImpl) runFilters(ctx context.Context, tasks []*domain.Task, filters []Filter) []*domain.Task {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, filter := range filters {
		filtered, err := filter.Apply(ctx, tasks)
		if err != nil {
			log.Warn("eligibility filter failed, passing through",
				slog.String("filter", filter.Name()),
				slog.String("error", err.Error()))
			continue
		}
		tasks = filtered
	}
	return tasks
}

// paginate slices tasks to [offset, offset+limit), clamped to bounds.
func paginate(tasks []*domain.Task, offset, limit int) []*domain.Task {
	if offset >= len(tasks) {
		return nil
	}
	end := offset + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[offset:end]
}

// resolveFilters echoes the caller's filter state with unknown ids
// dropped, so the echoed value reflects what the pipeline actually ran.
func resolveFilters(in domain.TaskSetFilters, taskTypes []*domain.TaskType, topics []domain.Topic) domain.TaskSetFilters {
	out := domain.TaskSetFilters{
		TaskTypeIDs:   make([]string, 0, len(taskTypes)),
		TopicMatch:    in.TopicMatch,
		ExcludedItems: in.ExcludedItems,
	}
	for _, tt := range taskTypes {
		out.TaskTypeIDs = append(out.TaskTypeIDs, tt.ID)
	}
	if len(topics) > 0 {
		out.TopicIDs = make([]string, 0, len(topics))
		for _, topic := range topics {
			out.TopicIDs = append(out.TopicIDs, topic.ID())
		}
	}
	return out
}
