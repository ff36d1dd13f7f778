package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/observability"
	"roulette-signal-lab/internal/storage"
)

// OutcomeHandler is invoked for every accepted outcome with the table's
// refreshed history, newest first.
type OutcomeHandler func(ctx context.Context, o *domain.Outcome, history domain.History) error

// Manager pumps outcomes from a source into storage and hands each accepted
// spin to the handler. Replayed spins are rejected by the storage layer
// (ErrDuplicateKey) and skipped silently.
type Manager struct {
	source   OutcomeSource
	store    storage.OutcomeStore
	handler  OutcomeHandler
	lookback int
	logger   zerolog.Logger
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Source  OutcomeSource
	Store   storage.OutcomeStore
	Handler OutcomeHandler

	// Lookback bounds the history window fetched per accepted outcome.
	// Zero or less fetches the full table history.
	Lookback int
}

// NewManager creates a new ingestion manager.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		source:   opts.Source,
		store:    opts.Store,
		handler:  opts.Handler,
		lookback: opts.Lookback,
		logger:   log.With().Str("component", "ingestion_manager").Logger(),
	}
}

// Run consumes the source until the channel closes or the context ends.
// Returns the count of accepted outcomes.
func (m *Manager) Run(ctx context.Context) (int, error) {
	outcomes, err := m.source.Subscribe(ctx)
	if err != nil {
		return 0, fmt.Errorf("subscribe to source: %w", err)
	}

	accepted := 0
	for {
		select {
		case <-ctx.Done():
			return accepted, ctx.Err()
		case o, ok := <-outcomes:
			if !ok {
				return accepted, nil
			}
			ok, err := m.ingest(ctx, o)
			if err != nil {
				return accepted, err
			}
			if ok {
				accepted++
			}
		}
	}
}

// ingest stores one outcome and invokes the handler on acceptance.
// The bool reports whether the outcome was accepted as new.
func (m *Manager) ingest(ctx context.Context, o *domain.Outcome) (bool, error) {
	if err := m.store.Insert(ctx, o); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			m.logger.Debug().Str("spin_id", o.SpinID).Msg("skipping replayed spin")
			observability.RecordSpinReplayed()
			return false, nil
		}
		if errors.Is(err, storage.ErrInvalidInput) {
			m.logger.Warn().Str("spin_id", o.SpinID).Int("number", o.Number).
				Msg("dropping invalid outcome")
			return false, nil
		}
		return false, fmt.Errorf("store outcome: %w", err)
	}
	observability.RecordSpinAccepted(o.TimestampMs)

	if m.handler == nil {
		return true, nil
	}

	history, err := m.store.GetRecent(ctx, o.Table, m.lookback)
	if err != nil {
		return false, fmt.Errorf("load history: %w", err)
	}
	if err := m.handler(ctx, o, history); err != nil {
		return false, err
	}
	return true, nil
}
