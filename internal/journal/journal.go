// Package journal persists lifecycle transitions to SQLite.
//
// Every provider and device state change flows through here, giving a
// queryable history of what the runtime did to the driver and when. The
// journal is diagnostic only; the adapters work fine without one.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200
)

// Entry is one recorded lifecycle transition.
type Entry struct {
	ID        int64     `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	FromState string    `json:"from_state"`
	ToState   string    `json:"to_state"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal records lifecycle transitions in the lifecycle_journal table.
//
// Thread Safety:
//   - All methods are safe for concurrent use; SQLite serialises writes.
type Journal struct {
	db *sql.DB
}

// New creates a Journal backed by an open SQLite connection.
// The lifecycle_journal table must already exist (see migrations).
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// RecordTransition inserts one state change for an entity.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - entity: "provider" or "device"
//   - id: Bridge ID or device serial
//   - from: State before the transition
//   - to: State after the transition
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (j *Journal) RecordTransition(ctx context.Context, entity, id, from, to string) error {
	if entity == "" {
		return fmt.Errorf("entity is required")
	}
	if id == "" {
		return fmt.Errorf("entity id is required")
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO lifecycle_journal (entity, entity_id, from_state, to_state) VALUES (?, ?, ?, ?)",
		entity, id, from, to,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	return nil
}

// Recent returns the most recent transitions across all entities,
// ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum entries to return (default 50, max 200)
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	limit = clampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, entity, entity_id, from_state, to_state, created_at
		 FROM lifecycle_journal
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows, limit)
}

// History returns recent transitions for one entity, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - entity: "provider" or "device"
//   - id: Bridge ID or device serial
//   - limit: Maximum entries to return (default 50, max 200)
func (j *Journal) History(ctx context.Context, entity, id string, limit int) ([]Entry, error) {
	if entity == "" {
		return nil, fmt.Errorf("entity is required")
	}
	if id == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	limit = clampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, entity, entity_id, from_state, to_state, created_at
		 FROM lifecycle_journal
		 WHERE entity = ? AND entity_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		entity, id, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows, limit)
}

// Prune deletes entries older than the given duration.
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (j *Journal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := j.db.ExecContext(ctx,
		"DELETE FROM lifecycle_journal WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}

func scanEntries(rows *sql.Rows, limit int) ([]Entry, error) {
	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.EntityID, &entry.FromState, &entry.ToState, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		timestamp, err := parseJournalTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}

	return entries, nil
}

// parseJournalTimestamp parses a timestamp stored by SQLite. The default
// CURRENT_TIMESTAMP format lacks the T separator, hence the fallback.
func parseJournalTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02 15:04:05", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
