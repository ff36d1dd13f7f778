package storage

import (
	"context"

	"roulette-signal-lab/internal/domain"
)

// OutcomeStore provides access to outcomes storage. It implements the
// persistence collaborator contract the engine depends on: append-only
// writes deduplicated by spin id and newest-first windowed reads.
type OutcomeStore interface {
	// Insert adds a new outcome. Returns ErrDuplicateKey if spin_id exists.
	Insert(ctx context.Context, o *domain.Outcome) error

	// InsertBulk adds multiple outcomes atomically. Fails entire batch on
	// any duplicate.
	InsertBulk(ctx context.Context, outcomes []*domain.Outcome) error

	// GetBySpinID retrieves an outcome by its id. Returns ErrNotFound if
	// not exists.
	GetBySpinID(ctx context.Context, spinID string) (*domain.Outcome, error)

	// GetRecent retrieves up to limit outcomes for a table, newest first.
	// limit <= 0 returns the full table history.
	GetRecent(ctx context.Context, table string, limit int) (domain.History, error)

	// GetByTimeRange retrieves outcomes for a table within [start, end]
	// milliseconds (inclusive), newest first.
	GetByTimeRange(ctx context.Context, table string, start, end int64) (domain.History, error)

	// CountByTable returns how many outcomes are stored for a table.
	CountByTable(ctx context.Context, table string) (int, error)
}

// SnapshotStore archives per-evaluation aggregator snapshots for
// after-the-fact signal review.
type SnapshotStore interface {
	// InsertBulk adds snapshot records; the archive tolerates replays
	// (ClickHouse deduplicates via ReplacingMergeTree).
	InsertBulk(ctx context.Context, snapshots []*domain.SignalSnapshot) error

	// GetByTable retrieves all snapshots for a table, newest first.
	GetByTable(ctx context.Context, table string) ([]*domain.SignalSnapshot, error)

	// GetByTimeRange retrieves snapshots for a table within [start, end]
	// milliseconds (inclusive), newest first.
	GetByTimeRange(ctx context.Context, table string, start, end int64) ([]*domain.SignalSnapshot, error)
}
