// Package store provides abstractions and implementations for data
// persistence.
package store

import (
	"context"
	"time"
)

// Namespace partitions recency data from other per-user keyed data in the
// same storage.
const Namespace = "newcomer-tasks"

// DefaultRecencyTTL is the scrolling window after which an opened item is
// forgotten. One week in the reference deployment.
const DefaultRecencyTTL = 7 * 24 * time.Hour

// CacheEntry records one opened item inside a user's recency map. An
// entry is considered absent once now is past ExpiresAt, even while it is
// still physically present in storage.
type CacheEntry struct {
	TaskTypeID string    `json:"task_type"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (e CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// RecencyStore remembers which content items a user has opened from a
// suggestion list, keyed by (Namespace, userID).
//
// SetOpened must be atomic with respect to concurrent calls for the same
// user: two browser tabs racing must not lose each other's entries.
// Implementations use a transactional or compare-and-retry primitive, not
// a plain read-then-write.
// Version: 1.0
type RecencyStore interface {
	// SetOpened records that the user opened the item for the given task
	// type. It reads the user's current map, prunes expired entries,
	// inserts or overwrites the item with a fresh expiry, and writes the
	// merged map back atomically.
	SetOpened(ctx context.Context, userID, itemID, taskTypeID string) error

	// GetOpened returns the user's surviving itemID -> taskTypeID pairs.
	// Expired entries are excluded from the result but need not be
	// physically purged until the next SetOpened.
	GetOpened(ctx context.Context, userID string) (map[string]string, error)
}
