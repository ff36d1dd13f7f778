package ingestion

import (
	"context"
	"time"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/idhash"
)

// OutcomeSource streams spin outcomes from an external feed.
type OutcomeSource interface {
	// Subscribe returns a channel of outcomes. The channel is closed when
	// the context is cancelled or the source shuts down. Outcomes may be
	// replayed across reconnects; consumers deduplicate by spin id.
	Subscribe(ctx context.Context) (<-chan *domain.Outcome, error)
}

// StubSource replays a fixed number sequence at a configurable pace.
// Used for replay runs and tests where no live feed is available.
type StubSource struct {
	Table    string
	Numbers  []int
	Interval time.Duration // zero emits as fast as the consumer drains
	StartMs  int64         // timestamp of the first spin, Unix ms
	StepMs   int64         // timestamp increment per spin; defaults to 1
}

// Compile-time interface check.
var _ OutcomeSource = (*StubSource)(nil)

// Subscribe emits the configured numbers in order, then closes the channel.
func (s *StubSource) Subscribe(ctx context.Context) (<-chan *domain.Outcome, error) {
	step := s.StepMs
	if step <= 0 {
		step = 1
	}

	out := make(chan *domain.Outcome)
	go func() {
		defer close(out)
		for i, n := range s.Numbers {
			if !domain.ValidNumber(n) {
				continue
			}
			ts := s.StartMs + int64(i)*step
			o := &domain.Outcome{
				SpinID:      idhash.ComputeSpinID(s.Table, int64(i), n, ts),
				Table:       s.Table,
				Number:      n,
				TimestampMs: ts,
			}

			if s.Interval > 0 {
				select {
				case <-time.After(s.Interval):
				case <-ctx.Done():
					return
				}
			}

			select {
			case out <- o:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
