// Package memcache provides in-process store implementations used in
// development mode and by tests.
package memcache

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/suggest-api/internal/store"
)

// RecencyStore implements store.RecencyStore with per-user maps guarded
// by a mutex. The mutex makes the read-prune-merge-write cycle atomic
// with respect to concurrent SetOpened calls for the same user.
type RecencyStore struct {
	mu    sync.Mutex
	users map[string]map[string]store.CacheEntry
	ttl   time.Duration

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewRecencyStore creates an in-process recency store with the given
// entry TTL.
func NewRecencyStore(ttl time.Duration) *RecencyStore {
	if ttl <= 0 {
		ttl = store.DefaultRecencyTTL
	}
	return &RecencyStore{
		users: make(map[string]map[string]store.CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock replaces the store's clock. Test hook only.
func (s *RecencyStore) SetClock(now func() time.Time) {
	s.now = now
}

// SetOpened implements store.RecencyStore.
func (s *RecencyStore) SetOpened(_ context.Context, userID, itemID, taskTypeID string) error {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.users[userID]
	if entries == nil {
		entries = make(map[string]store.CacheEntry)
		s.users[userID] = entries
	}
	for item, entry := range entries {
		if entry.Expired(now) {
			delete(entries, item)
		}
	}
	entries[itemID] = store.CacheEntry{
		TaskTypeID: taskTypeID,
		ExpiresAt:  now.Add(s.ttl),
	}
	return nil
}

// GetOpened implements store.RecencyStore.
func (s *RecencyStore) GetOpened(_ context.Context, userID string) (map[string]string, error) {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string)
	for item, entry := range s.users[userID] {
		if entry.Expired(now) {
			continue
		}
		result[item] = entry.TaskTypeID
	}
	return result, nil
}
