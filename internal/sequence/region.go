// Package sequence detects repeating short motifs in the outcome stream:
// dominant length-3 region (dozen) sequences and the 5-outcome
// first-equals-last "bracket" pattern.
package sequence

import (
	"fmt"
	"strings"

	"roulette-signal-lab/internal/domain"
)

// Region buckets: 0 = zero, 1..3 = the three dozens.
const (
	RegionZero        = 0
	RegionFirstDozen  = 1
	RegionSecondDozen = 2
	RegionThirdDozen  = 3
)

// RegionLength is the motif length the region detector scans for.
const RegionLength = 3

// RegionOf maps a number to its coarse region.
func RegionOf(number int) int {
	switch {
	case number == 0:
		return RegionZero
	case number <= 12:
		return RegionFirstDozen
	case number <= 24:
		return RegionSecondDozen
	default:
		return RegionThirdDozen
	}
}

// RegionPattern is the dominant repeating region motif.
type RegionPattern struct {
	Regions     [RegionLength]int
	Occurrences int
	// RoundsAgo is how many outcomes arrived after the most recent
	// completion of the motif.
	RoundsAgo int
}

// Key renders the motif as a stable "a-b-c" string.
func (p RegionPattern) Key() string {
	parts := make([]string, RegionLength)
	for i, r := range p.Regions {
		parts[i] = fmt.Sprintf("%d", r)
	}
	return strings.Join(parts, "-")
}

// DominantRegionPattern slides a length-3 window over the chronological
// region sequence and returns the most frequent motif. Only motifs seen
// more than once qualify; ties are broken by first occurrence during the
// chronological scan, which makes the result deterministic. Returns nil
// when the history is too short or no motif repeats.
func DominantRegionPattern(history domain.History) *RegionPattern {
	if len(history) < RegionLength {
		return nil
	}

	chrono := history.Chronological()
	regions := make([]int, len(chrono))
	for i, n := range chrono {
		regions[i] = RegionOf(n)
	}

	type motifStats struct {
		count     int
		firstSeen int // scan position of first occurrence
		lastEnd   int // chronological index after the latest occurrence
	}
	counts := make(map[[RegionLength]int]*motifStats)

	for i := 0; i+RegionLength <= len(regions); i++ {
		var motif [RegionLength]int
		copy(motif[:], regions[i:i+RegionLength])
		s, ok := counts[motif]
		if !ok {
			s = &motifStats{firstSeen: i}
			counts[motif] = s
		}
		s.count++
		s.lastEnd = i + RegionLength
	}

	var best [RegionLength]int
	var bestStats *motifStats
	for motif, s := range counts {
		if s.count < 2 {
			continue
		}
		if bestStats == nil ||
			s.count > bestStats.count ||
			(s.count == bestStats.count && s.firstSeen < bestStats.firstSeen) {
			best = motif
			bestStats = s
		}
	}
	if bestStats == nil {
		return nil
	}

	return &RegionPattern{
		Regions:     best,
		Occurrences: bestStats.count,
		RoundsAgo:   len(regions) - bestStats.lastEnd,
	}
}
