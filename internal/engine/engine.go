// Package engine ties the analyzers together: one Evaluate call runs the
// full pass for a freshly accepted spin (scoring, sector bias, neighborhood
// patterns, sequence views), feeds the notification policy, and optionally
// archives an evaluation snapshot.
package engine

import (
	"context"
	"fmt"
	"time"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/neighborhood"
	"roulette-signal-lab/internal/notify"
	"roulette-signal-lab/internal/observability"
	"roulette-signal-lab/internal/scoring"
	"roulette-signal-lab/internal/sector"
	"roulette-signal-lab/internal/sequence"
	"roulette-signal-lab/internal/storage"
)

// Evaluator runs the full analysis pass per accepted outcome. It owns the
// notification policy and center, so one Evaluator tracks one table's
// evaluation stream.
type Evaluator struct {
	config          scoring.Config
	bracketLookback int

	policy *notify.Policy
	center *notify.Center

	snapshots storage.SnapshotStore // optional archive

	now func() time.Time
}

// Options for creating an Evaluator.
type Options struct {
	// Scoring carries the analyzer configurations; zero values select
	// defaults.
	Scoring scoring.Config

	// BracketLookback bounds the bracket frequency view. Zero selects the
	// sequence package default.
	BracketLookback int

	// SnapshotStore, when set, archives one SignalSnapshot per evaluation.
	SnapshotStore storage.SnapshotStore

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a new Evaluator.
func New(opts Options) *Evaluator {
	lookback := opts.BracketLookback
	if lookback <= 0 {
		lookback = sequence.DefaultBracketLookback
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Evaluator{
		config:          opts.Scoring,
		bracketLookback: lookback,
		policy:          notify.NewPolicy(),
		center:          notify.NewCenter(),
		snapshots:       opts.SnapshotStore,
		now:             now,
	}
}

// Evaluation is the full output of one analysis pass.
type Evaluation struct {
	Report scoring.Report
	Sector sector.Result

	Neighborhoods []neighborhood.Pattern
	RegionPattern *sequence.RegionPattern

	Bracket          *sequence.Bracket
	FormingCandidate *int
	Candidates       []sequence.Candidate
	BracketFrequency float64

	Alerts []domain.Alert
}

// Evaluate runs one full pass over the history snapshot for the accepted
// outcome. History is newest first, with the outcome at index 0.
func (e *Evaluator) Evaluate(ctx context.Context, o *domain.Outcome, history domain.History) (*Evaluation, error) {
	started := time.Now()

	patterns, err := neighborhood.Analyze(history, e.config.Neighborhood)
	if err != nil {
		return nil, fmt.Errorf("neighborhood analysis: %w", err)
	}

	ev := &Evaluation{
		Report:        scoring.Evaluate(history, e.config),
		Sector:        sector.Analyze(history, e.config.Sector),
		Neighborhoods: patterns,
		RegionPattern: sequence.DominantRegionPattern(history),
		Bracket:       sequence.Completed(history),
		Candidates:    sequence.HotCandidates(history),
	}

	if n, ok := sequence.FormingCandidate(history); ok {
		ev.FormingCandidate = &n
	}
	_, _, ev.BracketFrequency = sequence.Frequency(history, e.bracketLookback)

	now := e.now()
	ev.Alerts = e.policy.Observe(notify.Observation{
		Signal:           ev.Report.Signal,
		SectorStatus:     ev.Sector.Status,
		Bracket:          ev.Bracket,
		FormingCandidate: ev.FormingCandidate,
		Candidates:       ev.Candidates,
		BracketFrequency: ev.BracketFrequency,
	}, now)
	e.center.PushAll(ev.Alerts, now)

	if e.snapshots != nil {
		snap := buildSnapshot(o, history, ev, now)
		if err := e.snapshots.InsertBulk(ctx, []*domain.SignalSnapshot{snap}); err != nil {
			return nil, fmt.Errorf("archive snapshot: %w", err)
		}
	}

	observability.RecordEvaluation(time.Since(started).Seconds(),
		ev.Report.Assertiveness, string(ev.Sector.Status), ev.Report.Signal != nil)
	for _, a := range ev.Alerts {
		observability.RecordAlert(string(a.Kind))
	}

	return ev, nil
}

// Handle adapts Evaluate to the ingestion handler contract, discarding the
// evaluation. Callers that want the evaluation call Evaluate directly.
func (e *Evaluator) Handle(ctx context.Context, o *domain.Outcome, history domain.History) error {
	_, err := e.Evaluate(ctx, o, history)
	return err
}

// Center exposes the notification center for display layers.
func (e *Evaluator) Center() *notify.Center {
	return e.center
}

// buildSnapshot flattens one evaluation into its archive record.
func buildSnapshot(o *domain.Outcome, history domain.History, ev *Evaluation, now time.Time) *domain.SignalSnapshot {
	snap := &domain.SignalSnapshot{
		Table:         o.Table,
		TimestampMs:   now.UnixMilli(),
		SpinID:        o.SpinID,
		HistoryLength: len(history),
		Assertiveness: ev.Report.Assertiveness,
		SectorStatus:  string(ev.Sector.Status),
	}
	if sig := ev.Report.Signal; sig != nil {
		snap.ConvergenceCount = sig.ConvergenceCount
		snap.Confidence = sig.Confidence
		snap.Numbers = make([]int32, len(sig.Numbers))
		for i, n := range sig.Numbers {
			snap.Numbers[i] = int32(n)
		}
		snap.Reasons = append([]string(nil), sig.Reasons...)
	}
	if ev.Sector.Best != nil {
		snap.BestSectorID = ev.Sector.Best.Sector.ID
	}
	return snap
}
