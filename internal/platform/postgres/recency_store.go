// Package postgres provides PostgreSQL-backed store implementations.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/suggest-api/internal/platform/logger"
	"github.com/phrazzld/suggest-api/internal/store"
)

// RecencyStore implements store.RecencyStore on top of a single
// per-user JSONB document. The read-prune-merge-write cycle runs inside
// a transaction with SELECT ... FOR UPDATE, which serializes concurrent
// merges for the same user while leaving different users unblocked: the
// row lock is partitioned by (namespace, user_id).
type RecencyStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewRecencyStore creates a Postgres-backed recency store with the given
// entry TTL.
func NewRecencyStore(db *sql.DB, ttl time.Duration, log *slog.Logger) *RecencyStore {
	if ttl <= 0 {
		ttl = store.DefaultRecencyTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecencyStore{
		db:     db,
		ttl:    ttl,
		logger: log.With(slog.String("component", "recency_store")),
		now:    time.Now,
	}
}

// SetOpened implements store.RecencyStore.
func (s *RecencyStore) SetOpened(ctx context.Context, userID, itemID, taskTypeID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// SELECT ... FOR UPDATE cannot lock a row that does not exist, so
		// two first writes for the same user would both read an empty map
		// and the second upsert would overwrite the first. Materialize the
		// row before the locking read so the merge always serializes.
		if err := s.ensureRow(ctx, tx, userID); err != nil {
			return err
		}

		entries, err := s.readForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Prune expired entries while we hold the row lock, then merge
		// the new entry with a fresh expiry.
		for item, entry := range entries {
			if entry.Expired(now) {
				delete(entries, item)
			}
		}
		entries[itemID] = store.CacheEntry{
			TaskTypeID: taskTypeID,
			ExpiresAt:  now.Add(s.ttl),
		}

		return s.write(ctx, tx, userID, entries, now)
	})
	if err != nil {
		log.Warn("failed to record opened task",
			slog.String("user_id", userID),
			slog.String("item_id", itemID),
			slog.String("error", err.Error()))
		return store.NewStoreError("opened_tasks", "set", "atomic merge failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}
	return nil
}

// GetOpened implements store.RecencyStore. Expired entries are excluded
// from the result but left in place; the next SetOpened prunes them.
func (s *RecencyStore) GetOpened(ctx context.Context, userID string) (map[string]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	var raw []byte
	query := `SELECT items FROM opened_tasks WHERE namespace = $1 AND user_id = $2`
	err := s.db.QueryRowContext(ctx, query, store.Namespace, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]string{}, nil
	}
	if err != nil {
		log.Warn("failed to read opened tasks",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("opened_tasks", "get", "read failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}

	var entries map[string]store.CacheEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, store.NewStoreError("opened_tasks", "get", "malformed items document", err)
	}

	result := make(map[string]string, len(entries))
	for item, entry := range entries {
		if entry.Expired(now) {
			continue
		}
		result[item] = entry.TaskTypeID
	}
	return result, nil
}

// ensureRow creates the user's row if it does not exist yet. A concurrent
// insert for the same key blocks here until the other transaction
// finishes, so the locking read that follows always finds a row to lock.
func (s *RecencyStore) ensureRow(ctx context.Context, q store.DBTX, userID string) error {
	query := `
		INSERT INTO opened_tasks (namespace, user_id)
		VALUES ($1, $2)
		ON CONFLICT (namespace, user_id) DO NOTHING
	`
	if _, err := q.ExecContext(ctx, query, store.Namespace, userID); err != nil {
		return fmt.Errorf("failed to materialize opened tasks row: %w", err)
	}
	return nil
}

// readForUpdate loads and row-locks the user's entry map, returning an
// empty map when no row exists yet. The row lock requires a transaction,
// so callers always pass a *sql.Tx here.
func (s *RecencyStore) readForUpdate(ctx context.Context, q store.DBTX, userID string) (map[string]store.CacheEntry, error) {
	var raw []byte
	query := `SELECT items FROM opened_tasks WHERE namespace = $1 AND user_id = $2 FOR UPDATE`
	err := q.QueryRowContext(ctx, query, store.Namespace, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]store.CacheEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock opened tasks row: %w", err)
	}

	var entries map[string]store.CacheEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupt document is superseded by a fresh merge rather than
		// wedging the user's cache forever.
		return map[string]store.CacheEntry{}, nil
	}
	return entries, nil
}

// write upserts the merged entry map.
func (s *RecencyStore) write(ctx context.Context, q store.DBTX, userID string, entries map[string]store.CacheEntry, now time.Time) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal opened tasks: %w", err)
	}

	query := `
		INSERT INTO opened_tasks (namespace, user_id, items, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, user_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
	if _, err := q.ExecContext(ctx, query, store.Namespace, userID, raw, now); err != nil {
		return fmt.Errorf("failed to upsert opened tasks: %w", err)
	}
	return nil
}
