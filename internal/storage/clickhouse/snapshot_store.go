package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
//
// signal_snapshots is a ReplacingMergeTree keyed by (table_id, spin_id,
// timestamp_ms), so re-inserting a replayed spin converges to one row after
// merges. Reads use FINAL to see the deduplicated view.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	table_id, timestamp_ms, spin_id, history_length,
	assertiveness, convergence_count, confidence,
	numbers, reasons, sector_status, best_sector_id
`

// InsertBulk adds snapshot records via a prepared batch.
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.SignalSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	for _, snap := range snapshots {
		if snap == nil || snap.Table == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO signal_snapshots (`+snapshotColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.Table, snap.TimestampMs, snap.SpinID, snap.HistoryLength,
			snap.Assertiveness, snap.ConvergenceCount, snap.Confidence,
			snap.Numbers, snap.Reasons, snap.SectorStatus, snap.BestSectorID,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTable retrieves all snapshots for a table, newest first.
func (s *SnapshotStore) GetByTable(ctx context.Context, table string) ([]*domain.SignalSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM signal_snapshots FINAL
		WHERE table_id = ?
		ORDER BY timestamp_ms DESC
	`

	rows, err := s.conn.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by table: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetByTimeRange retrieves snapshots for a table within [start, end]
// (inclusive), newest first.
func (s *SnapshotStore) GetByTimeRange(ctx context.Context, table string, start, end int64) ([]*domain.SignalSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM signal_snapshots FINAL
		WHERE table_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms DESC
	`

	rows, err := s.conn.Query(ctx, query, table, start, end)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by time range: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// scanSnapshots scans multiple rows into a slice of SignalSnapshot.
func scanSnapshots(rows driver.Rows) ([]*domain.SignalSnapshot, error) {
	var snapshots []*domain.SignalSnapshot

	for rows.Next() {
		var snap domain.SignalSnapshot
		err := rows.Scan(
			&snap.Table, &snap.TimestampMs, &snap.SpinID, &snap.HistoryLength,
			&snap.Assertiveness, &snap.ConvergenceCount, &snap.Confidence,
			&snap.Numbers, &snap.Reasons, &snap.SectorStatus, &snap.BestSectorID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
