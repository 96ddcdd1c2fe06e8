package suggestion

import (
	"context"
	"fmt"

	"github.com/phrazzld/suggest-api/internal/domain"
	"github.com/phrazzld/suggest-api/internal/store"
)

// RecencyFilter drops items the requesting user has opened within the
// recency window, so a task the user already looked at does not reappear
// at the top of every page.
type RecencyFilter struct {
	recency store.RecencyStore
}

// NewRecencyFilter creates a RecencyFilter backed by the given store.
func NewRecencyFilter(recency store.RecencyStore) (*RecencyFilter, error) {
	if recency == nil {
		return nil, domain.NewValidationError("recency", "cannot be nil", domain.ErrValidation)
	}
	return &RecencyFilter{recency: recency}, nil
}

// Name implements the Filter interface.
func (f *RecencyFilter) Name() string { return "recency" }

// Apply implements the Filter interface. A store failure propagates as an
// error; the pipeline treats it as a pass-through, which matches the
// store's fail-open contract.
func (f *RecencyFilter) Apply(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
	userID := UserIDFromContext(ctx)
	if userID == "" {
		return tasks, nil
	}

	opened, err := f.recency.GetOpened(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("recency lookup failed: %w", err)
	}
	if len(opened) == 0 {
		return tasks, nil
	}

	kept := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if _, recentlyOpened := opened[task.Item.Title]; recentlyOpened {
			continue
		}
		kept = append(kept, task)
	}
	return kept, nil
}

// ExclusionFilter drops items the caller explicitly excluded in its
// filter state. The exclusion term already narrows the backend query;
// this filter guards against backends that ignore negated terms.
type ExclusionFilter struct {
	excluded map[string]struct{}
}

// NewExclusionFilter creates an ExclusionFilter over the given
// references.
func NewExclusionFilter(refs []domain.ItemRef) *ExclusionFilter {
	excluded := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		excluded[ref.Title] = struct{}{}
	}
	return &ExclusionFilter{excluded: excluded}
}

// Name implements the Filter interface.
func (f *ExclusionFilter) Name() string { return "exclusion" }

// Apply implements the Filter interface.
func (f *ExclusionFilter) Apply(_ context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
	if len(f.excluded) == 0 {
		return tasks, nil
	}
	kept := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if _, drop := f.excluded[task.Item.Title]; drop {
			continue
		}
		kept = append(kept, task)
	}
	return kept, nil
}
