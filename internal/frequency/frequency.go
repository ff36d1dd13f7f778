// Package frequency computes occurrence counts and absence ("rounds since
// last hit") statistics over an outcome history, per number, per terminal
// (last digit) and per wheel sector. All functions are pure and read the
// history without mutating it.
package frequency

import (
	"fmt"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/wheel"
)

// CountsByNumber counts occurrences of every number over the most recent
// windowSize outcomes. windowSize <= 0 or larger than the history uses the
// full history. The returned map always holds all 37 numbers.
func CountsByNumber(history domain.History, windowSize int) map[int]int {
	counts := make(map[int]int, domain.WheelSize)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		counts[n] = 0
	}
	for _, o := range history.Window(windowSize) {
		if domain.ValidNumber(o.Number) {
			counts[o.Number]++
		}
	}
	return counts
}

// AbsenceOf returns the index of the most recent occurrence of number in
// the newest-first history, i.e. how many rounds ago it last hit. A number
// never seen returns len(history); on an empty history that is 0. The
// convention is uniform across all analyzers.
func AbsenceOf(history domain.History, number int) (int, error) {
	if !domain.ValidNumber(number) {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidNumber, number)
	}
	for i, o := range history {
		if o.Number == number {
			return i, nil
		}
	}
	return len(history), nil
}

// AbsenceOfAll computes AbsenceOf for all 37 numbers in a single pass.
func AbsenceOfAll(history domain.History) map[int]int {
	absence := make(map[int]int, domain.WheelSize)
	for i, o := range history {
		if !domain.ValidNumber(o.Number) {
			continue
		}
		if _, seen := absence[o.Number]; !seen {
			absence[o.Number] = i
		}
	}
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		if _, seen := absence[n]; !seen {
			absence[n] = len(history)
		}
	}
	return absence
}

// CountsByTerminal counts occurrences grouped by last digit (10 buckets)
// over the most recent windowSize outcomes.
func CountsByTerminal(history domain.History, windowSize int) map[int]int {
	counts := make(map[int]int, domain.TerminalMod)
	for t := 0; t < domain.TerminalMod; t++ {
		counts[t] = 0
	}
	for _, o := range history.Window(windowSize) {
		if domain.ValidNumber(o.Number) {
			counts[domain.Terminal(o.Number)]++
		}
	}
	return counts
}

// AbsenceByTerminal returns rounds since each terminal (0-9) last hit,
// using the same never-seen convention as AbsenceOf.
func AbsenceByTerminal(history domain.History) map[int]int {
	absence := make(map[int]int, domain.TerminalMod)
	for i, o := range history {
		if !domain.ValidNumber(o.Number) {
			continue
		}
		t := domain.Terminal(o.Number)
		if _, seen := absence[t]; !seen {
			absence[t] = i
		}
	}
	for t := 0; t < domain.TerminalMod; t++ {
		if _, seen := absence[t]; !seen {
			absence[t] = len(history)
		}
	}
	return absence
}

// TerminalGroupSize returns how many wheel numbers share terminal t:
// 4 for terminals 0-6, 3 for 7-9.
func TerminalGroupSize(t int) int {
	if t >= 7 && t <= 9 {
		return 3
	}
	return 4
}

// TerminalNumbers returns the numbers sharing terminal t, ascending.
func TerminalNumbers(t int) []int {
	var out []int
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		if domain.Terminal(n) == t {
			out = append(out, n)
		}
	}
	return out
}

// CountsBySector counts occurrences grouped by wheel sector over the most
// recent windowSize outcomes. The result is indexed like wheel.Sectors().
func CountsBySector(history domain.History, windowSize int) []int {
	counts := make([]int, wheel.SectorCount)
	for _, o := range history.Window(windowSize) {
		si, err := wheel.SectorIndexOf(o.Number)
		if err != nil {
			continue
		}
		counts[si]++
	}
	return counts
}
