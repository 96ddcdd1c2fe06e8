package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	copyedit := &TaskType{ID: "copyedit", Difficulty: DifficultyEasy}

	task, err := NewTask(ItemRef{Title: "Douglas Adams"}, copyedit)
	require.NoError(t, err)
	assert.Equal(t, "Douglas Adams", task.Item.Title)
	assert.Equal(t, "copyedit", task.Type.ID)

	_, err = NewTask(ItemRef{}, copyedit)
	assert.ErrorIs(t, err, ErrTaskItemEmpty)

	_, err = NewTask(ItemRef{Title: "Douglas Adams"}, nil)
	assert.ErrorIs(t, err, ErrTaskTypeIDEmpty)
}

func TestTask_AddTopic_DeduplicatesByID(t *testing.T) {
	copyedit := &TaskType{ID: "copyedit"}
	task, err := NewTask(ItemRef{Title: "Douglas Adams"}, copyedit)
	require.NoError(t, err)

	art, err := NewTagTopic("art", "culture", []string{"culture.art"})
	require.NoError(t, err)
	artAgain, err := NewTagTopic("art", "culture", []string{"culture.art"})
	require.NoError(t, err)
	physics, err := NewSimilarityTopic("physics", []string{"Physics"})
	require.NoError(t, err)

	task.AddTopic(art, 0.7)
	task.AddTopic(artAgain, 0.9) // same id, must not duplicate
	task.AddTopic(physics, 0)
	task.AddTopic(nil, 0)

	require.Len(t, task.Topics, 2)
	assert.True(t, task.HasTopic("art"))
	assert.True(t, task.HasTopic("physics"))
	// First association wins, including its weight.
	assert.Equal(t, 0.7, task.Topics[0].Weight)
}

func TestNewTaskSet_Invariants(t *testing.T) {
	copyedit := &TaskType{ID: "copyedit"}
	task, err := NewTask(ItemRef{Title: "A"}, copyedit)
	require.NoError(t, err)

	t.Run("negative offset rejected", func(t *testing.T) {
		_, err := NewTaskSet(nil, 0, -1, TaskSetFilters{})
		assert.ErrorIs(t, err, ErrInvalidOffset)
	})

	t.Run("total count never below item count", func(t *testing.T) {
		ts, err := NewTaskSet([]*Task{task}, 0, 0, TaskSetFilters{})
		require.NoError(t, err)
		assert.Equal(t, 1, ts.TotalCount)
	})

	t.Run("total count may exceed item count", func(t *testing.T) {
		ts, err := NewTaskSet([]*Task{task}, 40, 0, TaskSetFilters{})
		require.NoError(t, err)
		assert.Equal(t, 40, ts.TotalCount)
	})
}

func TestTaskSetFilters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filters TaskSetFilters
		wantErr bool
	}{
		{
			name:    "empty filters valid",
			filters: TaskSetFilters{},
		},
		{
			name: "valid match mode",
			filters: TaskSetFilters{
				TopicMatch: MatchModeAny,
			},
		},
		{
			name: "strategy match mode accepted",
			filters: TaskSetFilters{
				TopicMatch: MatchModeStrategy,
			},
		},
		{
			name: "unknown match mode rejected",
			filters: TaskSetFilters{
				TopicMatch: "all-of",
			},
			wantErr: true,
		},
		{
			name: "empty excluded ref rejected",
			filters: TaskSetFilters{
				ExcludedItems: []ItemRef{{Title: ""}},
			},
			wantErr: true,
		},
		{
			name: "valid excluded refs",
			filters: TaskSetFilters{
				ExcludedItems: []ItemRef{{Title: "Sandbox"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
