package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/sector"
	"roulette-signal-lab/internal/sequence"
)

// Alert display lifetimes. The three headline kinds come from the
// product's decision logic; the informational kinds are shorter-lived.
const (
	ConvergenceTTL = 15 * time.Second
	BrokenTTL      = 7 * time.Second
	CompletedTTL   = 8 * time.Second
	FormingTTL     = 5 * time.Second
	CandidatesTTL  = 6 * time.Second
	FrequencyTTL   = 10 * time.Second

	// FrequencyReportEvery is the evaluation cadence of the bracket
	// frequency report.
	FrequencyReportEvery = 10
)

// Observation is the per-evaluation snapshot the policy reacts to.
type Observation struct {
	Signal           *domain.EntrySignal
	SectorStatus     sector.Status
	Bracket          *sequence.Bracket
	FormingCandidate *int
	Candidates       []sequence.Candidate
	BracketFrequency float64 // percent of recent windows completing a bracket
}

// Policy turns successive observations into alerts. Transitions are
// input-driven: each Observe call compares the new observation against the
// previous one. A Policy tracks one evaluation stream and must be owned by
// a single goroutine; concurrent feeds get their own Policy.
type Policy struct {
	prev        *Observation
	evaluations int
}

// NewPolicy creates a policy with no prior observation.
func NewPolicy() *Policy {
	return &Policy{}
}

// Observe ingests the evaluation snapshot and returns the alerts its
// transitions produce, in priority order.
func (p *Policy) Observe(obs Observation, now time.Time) []domain.Alert {
	prev := p.prev
	p.prev = &obs
	p.evaluations++

	var alerts []domain.Alert

	// New convergence: the signal appeared on this evaluation.
	if obs.Signal != nil && (prev == nil || prev.Signal == nil) {
		alerts = append(alerts, domain.Alert{
			ID:       uuid.NewString(),
			Kind:     domain.AlertConvergenceSignal,
			Severity: domain.SeveritySuccess,
			Message: fmt.Sprintf("%d strategies converged, confidence %.0f",
				obs.Signal.ConvergenceCount, obs.Signal.Confidence),
			Numbers:   append([]int(nil), obs.Signal.Numbers...),
			TTL:       ConvergenceTTL,
			CreatedAt: now,
		})
	}

	// Dealer signature lost: downgrade from very active.
	if prev != nil && prev.SectorStatus == sector.StatusVeryActive && obs.SectorStatus != sector.StatusVeryActive {
		alerts = append(alerts, domain.Alert{
			ID:        uuid.NewString(),
			Kind:      domain.AlertPatternBroken,
			Severity:  domain.SeverityWarning,
			Message:   fmt.Sprintf("dealer signature lost: sector status now %s", obs.SectorStatus),
			TTL:       BrokenTTL,
			CreatedAt: now,
		})
	}

	// Bracket completion outranks and suppresses the forming/candidate
	// chatter for this cycle.
	completed := obs.Bracket != nil && (prev == nil || prev.Bracket == nil)
	if completed {
		alerts = append(alerts, domain.Alert{
			ID:        uuid.NewString(),
			Kind:      domain.AlertPatternCompleted,
			Severity:  domain.SeveritySuccess,
			Message:   fmt.Sprintf("bracket closed on %d", obs.Bracket.Number),
			Numbers:   append([]int(nil), obs.Bracket.Sequence...),
			TTL:       CompletedTTL,
			CreatedAt: now,
		})
	} else {
		if obs.FormingCandidate != nil && (prev == nil || prev.FormingCandidate == nil || *prev.FormingCandidate != *obs.FormingCandidate) {
			alerts = append(alerts, domain.Alert{
				ID:        uuid.NewString(),
				Kind:      domain.AlertPatternForming,
				Severity:  domain.SeverityInfo,
				Message:   fmt.Sprintf("bracket forming: %d closes it next spin", *obs.FormingCandidate),
				Numbers:   []int{*obs.FormingCandidate},
				TTL:       FormingTTL,
				CreatedAt: now,
			})
		}
		if len(obs.Candidates) > 0 && candidatesChanged(prev, obs.Candidates) {
			numbers := make([]int, len(obs.Candidates))
			for i, c := range obs.Candidates {
				numbers[i] = c.Number
			}
			alerts = append(alerts, domain.Alert{
				ID:        uuid.NewString(),
				Kind:      domain.AlertCandidateList,
				Severity:  domain.SeverityInfo,
				Message:   fmt.Sprintf("%d hot closing candidates", len(numbers)),
				Numbers:   numbers,
				TTL:       CandidatesTTL,
				CreatedAt: now,
			})
		}
	}

	if p.evaluations%FrequencyReportEvery == 0 {
		alerts = append(alerts, domain.Alert{
			ID:        uuid.NewString(),
			Kind:      domain.AlertFrequencyReport,
			Severity:  domain.SeverityInfo,
			Message:   fmt.Sprintf("brackets completing in %.0f%% of recent windows", obs.BracketFrequency),
			TTL:       FrequencyTTL,
			CreatedAt: now,
		})
	}

	return alerts
}

func candidatesChanged(prev *Observation, current []sequence.Candidate) bool {
	if prev == nil || len(prev.Candidates) != len(current) {
		return true
	}
	for i, c := range current {
		if prev.Candidates[i] != c {
			return true
		}
	}
	return false
}
