package suggestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/suggest-api/internal/domain"
	"github.com/phrazzld/suggest-api/internal/store"
)

// mockRecencyStore is a mock implementation of store.RecencyStore.
type mockRecencyStore struct {
	getFn func(ctx context.Context, userID string) (map[string]string, error)
}

func (m *mockRecencyStore) SetOpened(_ context.Context, _, _, _ string) error { return nil }
func (m *mockRecencyStore) GetOpened(ctx context.Context, userID string) (map[string]string, error) {
	return m.getFn(ctx, userID)
}

func makeTasks(t *testing.T, titles ...string) []*domain.Task {
	t.Helper()
	taskType := &domain.TaskType{ID: "copyedit"}
	tasks := make([]*domain.Task, 0, len(titles))
	for _, title := range titles {
		task, err := domain.NewTask(domain.ItemRef{Title: title}, taskType)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return tasks
}

func TestRecencyFilter_DropsRecentlyOpenedItems(t *testing.T) {
	recency := &mockRecencyStore{
		getFn: func(_ context.Context, userID string) (map[string]string, error) {
			assert.Equal(t, "alice", userID)
			return map[string]string{"B": "copyedit"}, nil
		},
	}
	filter, err := NewRecencyFilter(recency)
	require.NoError(t, err)

	ctx := WithUserID(context.Background(), "alice")
	kept, err := filter.Apply(ctx, makeTasks(t, "A", "B", "C"))
	require.NoError(t, err)

	require.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].Item.Title)
	assert.Equal(t, "C", kept[1].Item.Title)
}

func TestRecencyFilter_NoUserInContext(t *testing.T) {
	filter, err := NewRecencyFilter(&mockRecencyStore{
		getFn: func(_ context.Context, _ string) (map[string]string, error) {
			t.Fatal("store must not be consulted without a user")
			return nil, nil
		},
	})
	require.NoError(t, err)

	tasks := makeTasks(t, "A")
	kept, err := filter.Apply(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, tasks, kept)
}

func TestRecencyFilter_StoreFailurePropagates(t *testing.T) {
	filter, err := NewRecencyFilter(&mockRecencyStore{
		getFn: func(_ context.Context, _ string) (map[string]string, error) {
			return nil, store.ErrStoreUnavailable
		},
	})
	require.NoError(t, err)

	ctx := WithUserID(context.Background(), "alice")
	_, err = filter.Apply(ctx, makeTasks(t, "A"))

	// The pipeline turns this into a pass-through; the filter itself
	// reports the failure.
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestExclusionFilter(t *testing.T) {
	filter := NewExclusionFilter([]domain.ItemRef{{Title: "B"}, {Title: "D"}})

	kept, err := filter.Apply(context.Background(), makeTasks(t, "A", "B", "C"))
	require.NoError(t, err)

	require.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].Item.Title)
	assert.Equal(t, "C", kept[1].Item.Title)
}

func TestExclusionFilter_EmptyListIsNoOp(t *testing.T) {
	filter := NewExclusionFilter(nil)
	tasks := makeTasks(t, "A", "B")

	kept, err := filter.Apply(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, tasks, kept)
}

func TestNewRecencyFilter_RequiresStore(t *testing.T) {
	_, err := NewRecencyFilter(nil)
	assert.Error(t, err)
}
