package memory

import (
	"context"
	"sort"
	"sync"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data []*domain.SignalSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk adds snapshot records.
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.SignalSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		if snap == nil || snap.Table == "" {
			return storage.ErrInvalidInput
		}
		snapCopy := *snap
		s.data = append(s.data, &snapCopy)
	}
	return nil
}

// GetByTable retrieves all snapshots for a table, newest first.
func (s *SnapshotStore) GetByTable(_ context.Context, table string) ([]*domain.SignalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SignalSnapshot
	for _, snap := range s.data {
		if snap.Table == table {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}
	sortSnapshots(result)
	return result, nil
}

// GetByTimeRange retrieves snapshots for a table within [start, end]
// (inclusive), newest first.
func (s *SnapshotStore) GetByTimeRange(_ context.Context, table string, start, end int64) ([]*domain.SignalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SignalSnapshot
	for _, snap := range s.data {
		if snap.Table == table && snap.TimestampMs >= start && snap.TimestampMs <= end {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}
	sortSnapshots(result)
	return result, nil
}

func sortSnapshots(snapshots []*domain.SignalSnapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].TimestampMs > snapshots[j].TimestampMs
	})
}
