package memory

import (
	"context"
	"sort"
	"sync"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage"
)

// OutcomeStore is an in-memory implementation of storage.OutcomeStore.
type OutcomeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Outcome // keyed by spin_id
}

// NewOutcomeStore creates a new in-memory outcome store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{
		data: make(map[string]*domain.Outcome),
	}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// Insert adds a new outcome. Returns ErrDuplicateKey if spin_id exists.
func (s *OutcomeStore) Insert(_ context.Context, o *domain.Outcome) error {
	if o == nil || o.SpinID == "" || !domain.ValidNumber(o.Number) {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.SpinID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	outcomeCopy := *o
	s.data[o.SpinID] = &outcomeCopy
	return nil
}

// InsertBulk adds multiple outcomes atomically. Fails entire batch on any
// duplicate.
func (s *OutcomeStore) InsertBulk(_ context.Context, outcomes []*domain.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range outcomes {
		if o == nil || o.SpinID == "" || !domain.ValidNumber(o.Number) {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[o.SpinID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, o := range outcomes {
		outcomeCopy := *o
		s.data[o.SpinID] = &outcomeCopy
	}
	return nil
}

// GetBySpinID retrieves an outcome by its id. Returns ErrNotFound if not
// exists.
func (s *OutcomeStore) GetBySpinID(_ context.Context, spinID string) (*domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[spinID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	outcomeCopy := *o
	return &outcomeCopy, nil
}

// GetRecent retrieves up to limit outcomes for a table, newest first.
func (s *OutcomeStore) GetRecent(_ context.Context, table string, limit int) (domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.tableHistoryLocked(table)
	if limit > 0 && limit < len(history) {
		history = history[:limit]
	}
	return history, nil
}

// GetByTimeRange retrieves outcomes for a table within [start, end]
// (inclusive), newest first.
func (s *OutcomeStore) GetByTimeRange(_ context.Context, table string, start, end int64) (domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history domain.History
	for _, o := range s.tableHistoryLocked(table) {
		if o.TimestampMs >= start && o.TimestampMs <= end {
			history = append(history, o)
		}
	}
	return history, nil
}

// CountByTable returns how many outcomes are stored for a table.
func (s *OutcomeStore) CountByTable(_ context.Context, table string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, o := range s.data {
		if o.Table == table {
			count++
		}
	}
	return count, nil
}

// tableHistoryLocked collects a table's outcomes newest first. Ties on
// timestamp order by spin id for determinism. Caller holds mu.
func (s *OutcomeStore) tableHistoryLocked(table string) domain.History {
	var history domain.History
	for _, o := range s.data {
		if o.Table == table {
			history = append(history, *o)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].TimestampMs != history[j].TimestampMs {
			return history[i].TimestampMs > history[j].TimestampMs
		}
		return history[i].SpinID > history[j].SpinID
	})
	return history
}
