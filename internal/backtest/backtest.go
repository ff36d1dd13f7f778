// Package backtest measures entry-signal quality over a recorded feed.
// It replays the outcomes chronologically, re-evaluating the aggregator at
// every spin, and checks whether each emitted signal's numbers actually hit
// within the rounds the signal covers.
package backtest

import (
	"math"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/scoring"
)

// SignalOutcome records one emitted entry signal and how it resolved.
type SignalOutcome struct {
	SpinIndex int   // chronological index of the spin that produced the signal
	Numbers   []int // suggested numbers
	Hit       bool  // a suggested number landed within ValidForRounds spins
}

// Results holds the replay output.
type Results struct {
	Evaluations int // spins with enough history to score
	Signals     int // signals with full lookahead (resolved)
	Hits        int
	Unresolved  int // signals cut off by the end of the feed

	// HitRate is Hits/Signals in percent, 0 when no signal resolved.
	HitRate float64

	// BaselineRate is the hit probability of the same bets under a fair
	// wheel, in percent, averaged over the resolved signals.
	BaselineRate float64

	Outcomes []SignalOutcome
}

// Edge returns HitRate - BaselineRate, the measured advantage in percent.
func (r Results) Edge() float64 {
	return r.HitRate - r.BaselineRate
}

// Run replays the history chronologically and scores every emitted signal.
// History is newest first, as stored.
func Run(history domain.History, cfg scoring.Config) Results {
	chrono := history.Chronological()

	var res Results
	var baselineSum float64

	for i := scoring.MinHistory; i <= len(chrono); i++ {
		// The newest-first snapshot the engine would have seen after
		// spin i-1.
		snapshot := historyAt(chrono, i)
		report := scoring.Evaluate(snapshot, cfg)
		res.Evaluations++

		sig := report.Signal
		if sig == nil {
			continue
		}

		lookahead := chrono[i:]
		if len(lookahead) < sig.ValidForRounds {
			res.Unresolved++
			continue
		}

		hit := false
		for _, n := range lookahead[:sig.ValidForRounds] {
			if contains(sig.Numbers, n) {
				hit = true
				break
			}
		}

		res.Signals++
		if hit {
			res.Hits++
		}
		baselineSum += fairHitProbability(len(sig.Numbers), sig.ValidForRounds)
		res.Outcomes = append(res.Outcomes, SignalOutcome{
			SpinIndex: i - 1,
			Numbers:   append([]int(nil), sig.Numbers...),
			Hit:       hit,
		})
	}

	if res.Signals > 0 {
		res.HitRate = float64(res.Hits) / float64(res.Signals) * 100
		res.BaselineRate = baselineSum / float64(res.Signals) * 100
	}
	return res
}

// historyAt returns the newest-first view over the first n chronological
// numbers.
func historyAt(chrono []int, n int) domain.History {
	nums := make([]int, n)
	for j := 0; j < n; j++ {
		nums[j] = chrono[n-1-j]
	}
	return domain.HistoryFromNumbers(nums)
}

// fairHitProbability is the chance that k distinct numbers hit at least
// once in `rounds` spins of an unbiased 37-pocket wheel.
func fairHitProbability(k, rounds int) float64 {
	miss := 1.0 - float64(k)/float64(domain.WheelSize)
	return 1.0 - math.Pow(miss, float64(rounds))
}

func contains(numbers []int, n int) bool {
	for _, v := range numbers {
		if v == n {
			return true
		}
	}
	return false
}
