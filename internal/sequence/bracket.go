package sequence

import (
	"sort"

	"roulette-signal-lab/internal/domain"
)

// Bracket ("cerco") constants.
const (
	// BracketLength is the window size: a bracket is a 5-outcome window
	// whose first and last numbers are equal.
	BracketLength = 5

	// DefaultBracketLookback bounds the frequency scan.
	DefaultBracketLookback = 50

	// CandidateWindow and CandidateMinHits select "hot" closing
	// candidates: numbers hitting at least twice in the last 20 outcomes.
	CandidateWindow  = 20
	CandidateMinHits = 2
)

// Bracket is a completed first-equals-last 5-outcome window.
type Bracket struct {
	Number   int   // the repeated bracket number
	Sequence []int // the 5 numbers in chronological order
}

// Completed checks the most recent 5-outcome window. It returns the
// bracket when the window's chronologically first and last numbers are
// equal, nil otherwise (including histories shorter than 5).
func Completed(history domain.History) *Bracket {
	if len(history) < BracketLength {
		return nil
	}
	// history[0] is the newest outcome, history[4] the oldest of the window.
	if history[0].Number != history[BracketLength-1].Number {
		return nil
	}

	seq := make([]int, BracketLength)
	for i := 0; i < BracketLength; i++ {
		seq[i] = history[BracketLength-1-i].Number
	}
	return &Bracket{Number: history[0].Number, Sequence: seq}
}

// FormingCandidate reports the number that would close a bracket on the
// next spin: the outcome four rounds back. This is a heuristic pre-check,
// not a prediction. Returns (0, false) when fewer than 4 outcomes exist.
func FormingCandidate(history domain.History) (int, bool) {
	if len(history) < BracketLength-1 {
		return 0, false
	}
	return history[BracketLength-2].Number, true
}

// Frequency counts completed brackets among all 5-outcome windows inside
// the most recent lookback outcomes and returns (matches, windows,
// percentage). lookback <= 0 selects DefaultBracketLookback. Histories
// with no full window yield (0, 0, 0).
func Frequency(history domain.History, lookback int) (int, int, float64) {
	if lookback <= 0 {
		lookback = DefaultBracketLookback
	}
	window := history.Window(lookback)
	windows := len(window) - BracketLength + 1
	if windows <= 0 {
		return 0, 0, 0
	}

	matches := 0
	for i := 0; i < windows; i++ {
		if window[i].Number == window[i+BracketLength-1].Number {
			matches++
		}
	}
	return matches, windows, float64(matches) / float64(windows) * 100
}

// Candidate is a number considered likely to close a bracket, ranked by
// recent hit count.
type Candidate struct {
	Number int
	Hits   int
}

// HotCandidates returns the numbers hitting at least CandidateMinHits
// times in the last CandidateWindow outcomes, ordered by hit count
// descending then number ascending. Histories shorter than
// CandidateWindow yield nil ("insufficient data").
func HotCandidates(history domain.History) []Candidate {
	if len(history) < CandidateWindow {
		return nil
	}

	counts := make(map[int]int)
	for _, o := range history.Window(CandidateWindow) {
		counts[o.Number]++
	}

	var out []Candidate
	for n, c := range counts {
		if c >= CandidateMinHits {
			out = append(out, Candidate{Number: n, Hits: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hits != out[j].Hits {
			return out[i].Hits > out[j].Hits
		}
		return out[i].Number < out[j].Number
	})
	return out
}
