package domain

import "time"

// AlertKind identifies the event an alert reports.
type AlertKind string

const (
	AlertPatternCompleted  AlertKind = "PATTERN_COMPLETED"
	AlertPatternForming    AlertKind = "PATTERN_FORMING"
	AlertFrequencyReport   AlertKind = "FREQUENCY_REPORT"
	AlertCandidateList     AlertKind = "CANDIDATE_LIST"
	AlertConvergenceSignal AlertKind = "CONVERGENCE_SIGNAL"
	AlertPatternBroken     AlertKind = "PATTERN_BROKEN"
)

// AlertSeverity is the display class of an alert.
type AlertSeverity string

const (
	SeveritySuccess AlertSeverity = "success"
	SeverityWarning AlertSeverity = "warning"
	SeverityInfo    AlertSeverity = "info"
)

// Alert is a discrete, timed notification produced from analyzer and
// aggregator state transitions. TTL is part of the output contract: the
// consuming layer removes the alert once CreatedAt+TTL passes.
type Alert struct {
	ID        string        // unique instance id
	Kind      AlertKind
	Severity  AlertSeverity
	Message   string
	Numbers   []int // payload numbers, when the alert carries any
	TTL       time.Duration
	CreatedAt time.Time
}

// ExpiresAt returns the instant the alert stops being displayable.
func (a Alert) ExpiresAt() time.Time {
	return a.CreatedAt.Add(a.TTL)
}

// Expired reports whether the alert is past its display lifetime at now.
func (a Alert) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt())
}
