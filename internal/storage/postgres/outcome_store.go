package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using PostgreSQL.
type OutcomeStore struct {
	pool *Pool
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(pool *Pool) *OutcomeStore {
	return &OutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// Insert adds a new outcome. Returns ErrDuplicateKey if spin_id exists.
func (s *OutcomeStore) Insert(ctx context.Context, o *domain.Outcome) error {
	if o == nil || o.SpinID == "" || !domain.ValidNumber(o.Number) {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO outcomes (spin_id, table_id, number, timestamp_ms)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, o.SpinID, o.Table, o.Number, o.TimestampMs)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any duplicate.
func (s *OutcomeStore) InsertBulk(ctx context.Context, outcomes []*domain.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO outcomes (spin_id, table_id, number, timestamp_ms)
		VALUES ($1, $2, $3, $4)
	`

	for _, o := range outcomes {
		if o == nil || o.SpinID == "" || !domain.ValidNumber(o.Number) {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query, o.SpinID, o.Table, o.Number, o.TimestampMs)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert outcome in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySpinID retrieves an outcome by its id. Returns ErrNotFound if not exists.
func (s *OutcomeStore) GetBySpinID(ctx context.Context, spinID string) (*domain.Outcome, error) {
	query := `
		SELECT spin_id, table_id, number, timestamp_ms
		FROM outcomes
		WHERE spin_id = $1
	`

	var o domain.Outcome
	err := s.pool.QueryRow(ctx, query, spinID).Scan(&o.SpinID, &o.Table, &o.Number, &o.TimestampMs)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get outcome by spin id: %w", err)
	}
	return &o, nil
}

// GetRecent retrieves up to limit outcomes for a table, newest first.
// A limit of zero or less returns the full history.
func (s *OutcomeStore) GetRecent(ctx context.Context, table string, limit int) (domain.History, error) {
	query := `
		SELECT spin_id, table_id, number, timestamp_ms
		FROM outcomes
		WHERE table_id = $1
		ORDER BY timestamp_ms DESC, spin_id DESC
	`
	args := []any{table}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get recent outcomes: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// GetByTimeRange retrieves outcomes for a table within [start, end] (inclusive),
// newest first.
func (s *OutcomeStore) GetByTimeRange(ctx context.Context, table string, start, end int64) (domain.History, error) {
	query := `
		SELECT spin_id, table_id, number, timestamp_ms
		FROM outcomes
		WHERE table_id = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms DESC, spin_id DESC
	`

	rows, err := s.pool.Query(ctx, query, table, start, end)
	if err != nil {
		return nil, fmt.Errorf("get outcomes by time range: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// CountByTable returns how many outcomes are stored for a table.
func (s *OutcomeStore) CountByTable(ctx context.Context, table string) (int, error) {
	query := `SELECT COUNT(*) FROM outcomes WHERE table_id = $1`

	var count int
	if err := s.pool.QueryRow(ctx, query, table).Scan(&count); err != nil {
		return 0, fmt.Errorf("count outcomes by table: %w", err)
	}
	return count, nil
}

// scanOutcomes scans multiple rows into a History.
func scanOutcomes(rows pgx.Rows) (domain.History, error) {
	var history domain.History

	for rows.Next() {
		var o domain.Outcome
		if err := rows.Scan(&o.SpinID, &o.Table, &o.Number, &o.TimestampMs); err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		history = append(history, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome rows: %w", err)
	}

	return history, nil
}
