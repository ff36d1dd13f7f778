// Package notify converts analyzer and aggregator state transitions into
// discrete, timed alerts. The Center is the single place in the engine
// where mutable shared state exists; all access is serialized behind its
// mutex. Everything else in the package is pure.
package notify

import (
	"sync"
	"time"

	"roulette-signal-lab/internal/domain"
)

// Center limits and defaults.
const (
	DefaultMaxVisible   = 3
	DefaultHistoryLimit = 10
)

// Center owns the alert display state: a small visible set and a bounded
// history of alerts that overflowed or expired. Overflow is never dropped
// silently and never retained unboundedly.
type Center struct {
	mu           sync.Mutex
	visible      []domain.Alert
	queued       []domain.Alert
	history      []domain.Alert
	maxVisible   int
	historyLimit int
}

// NewCenter creates a Center with the default limits.
func NewCenter() *Center {
	return &Center{
		maxVisible:   DefaultMaxVisible,
		historyLimit: DefaultHistoryLimit,
	}
}

// Push surfaces an alert, queueing it when the visible set is full.
func (c *Center) Push(alert domain.Alert, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	if len(c.visible) < c.maxVisible {
		c.visible = append(c.visible, alert)
		return
	}
	c.queued = append(c.queued, alert)
}

// PushAll surfaces alerts in order.
func (c *Center) PushAll(alerts []domain.Alert, now time.Time) {
	for _, a := range alerts {
		c.Push(a, now)
	}
}

// Visible returns the currently displayable alerts, removing expired ones
// and promoting queued alerts into freed slots.
func (c *Center) Visible(now time.Time) []domain.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	out := make([]domain.Alert, len(c.visible))
	copy(out, c.visible)
	return out
}

// History returns the bounded record of expired and superseded alerts,
// oldest first.
func (c *Center) History() []domain.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Alert, len(c.history))
	copy(out, c.history)
	return out
}

// pruneLocked drops expired alerts into history and fills freed visible
// slots from the queue. Expiry is purely time-based. Caller holds mu.
func (c *Center) pruneLocked(now time.Time) {
	kept := c.visible[:0]
	for _, a := range c.visible {
		if a.Expired(now) {
			c.recordLocked(a)
			continue
		}
		kept = append(kept, a)
	}
	c.visible = kept

	// Queued alerts may expire before ever being shown; they still land
	// in history.
	queued := c.queued[:0]
	for _, a := range c.queued {
		if a.Expired(now) {
			c.recordLocked(a)
			continue
		}
		queued = append(queued, a)
	}
	c.queued = queued

	for len(c.visible) < c.maxVisible && len(c.queued) > 0 {
		c.visible = append(c.visible, c.queued[0])
		c.queued = c.queued[1:]
	}
}

func (c *Center) recordLocked(a domain.Alert) {
	c.history = append(c.history, a)
	if overflow := len(c.history) - c.historyLimit; overflow > 0 {
		c.history = c.history[overflow:]
	}
}
