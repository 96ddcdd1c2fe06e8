package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/suggest-api/internal/store"
)

// mockRecencyStore is a mock implementation of store.RecencyStore.
type mockRecencyStore struct {
	setFn func(ctx context.Context, userID, itemID, taskTypeID string) error
	getFn func(ctx context.Context, userID string) (map[string]string, error)
}

func (m *mockRecencyStore) SetOpened(ctx context.Context, userID, itemID, taskTypeID string) error {
	return m.setFn(ctx, userID, itemID, taskTypeID)
}

func (m *mockRecencyStore) GetOpened(ctx context.Context, userID string) (map[string]string, error) {
	return m.getFn(ctx, userID)
}

func TestRecordOpened(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		setErr          error
		expectedStatus  int
		expectedSuccess bool
	}{
		{
			name:            "success",
			body:            `{"user":"alice","item":"Douglas Adams","task_type":"copyedit"}`,
			expectedStatus:  http.StatusOK,
			expectedSuccess: true,
		},
		{
			name: "store failure reports success false",
			body: `{"user":"alice","item":"Douglas Adams","task_type":"copyedit"}`,
			setErr: store.NewStoreError(
				"opened_tasks", "set", "database gone", store.ErrStoreUnavailable),
			expectedStatus:  http.StatusOK,
			expectedSuccess: false,
		},
		{
			name:           "invalid body",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing fields",
			body:           `{"user":"alice"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recorded bool
			handler := NewRecencyHandler(&mockRecencyStore{
				setFn: func(_ context.Context, userID, itemID, taskTypeID string) error {
					recorded = true
					assert.Equal(t, "alice", userID)
					assert.Equal(t, "Douglas Adams", itemID)
					assert.Equal(t, "copyedit", taskTypeID)
					return tt.setErr
				},
			}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/opened", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.RecordOpened(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				assert.True(t, recorded)
				var resp OpenedResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedSuccess, resp.Success)
			} else {
				assert.False(t, recorded)
			}
		})
	}
}

func TestGetOpened(t *testing.T) {
	handler := NewRecencyHandler(&mockRecencyStore{
		getFn: func(_ context.Context, userID string) (map[string]string, error) {
			assert.Equal(t, "alice", userID)
			return map[string]string{"Douglas Adams": "copyedit"}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/opened?user=alice", nil)
	rec := httptest.NewRecorder()
	handler.GetOpened(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OpenedListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"Douglas Adams": "copyedit"}, resp.Items)
}

func TestGetOpened_FailsOpenOnStoreError(t *testing.T) {
	handler := NewRecencyHandler(&mockRecencyStore{
		getFn: func(_ context.Context, _ string) (map[string]string, error) {
			return nil, store.ErrStoreUnavailable
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/opened?user=alice", nil)
	rec := httptest.NewRecorder()
	handler.GetOpened(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OpenedListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestGetOpened_RequiresUser(t *testing.T) {
	handler := NewRecencyHandler(&mockRecencyStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/opened", nil)
	rec := httptest.NewRecorder()
	handler.GetOpened(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
