// Package neighborhood scores every number's wheel neighborhood against a
// recent window of outcomes: how often the physical region around the
// number receives hits versus what a uniform wheel would produce.
package neighborhood

import (
	"fmt"
	"sort"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/wheel"
)

// Analysis constants. The rate thresholds pin the product's decision
// boundaries and are asserted by tests; do not inline them.
const (
	DefaultRadius   = 3
	DefaultLookback = 50

	// MinRadius/MaxRadius bound the recognized neighborhood sizes.
	MinRadius = 2
	MaxRadius = 5

	// MinHistory is the smallest history the analyzer accepts; below it
	// the result is empty ("insufficient data", not "no signal").
	MinHistory = 20

	// Hit-rate thresholds (percent of lookback) for status buckets.
	ActiveRate   = 20.0
	ModerateRate = 12.0

	// Momentum ratios: recent-half rate vs full-lookback rate.
	HeatingRatio = 1.2
	CoolingRatio = 0.8
)

// Status classifies a neighborhood's hit rate.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusModerate Status = "MODERATE"
	StatusInactive Status = "INACTIVE"
)

// Momentum describes the direction a neighborhood's hit rate is moving.
type Momentum string

const (
	MomentumHeating Momentum = "HEATING"
	MomentumCooling Momentum = "COOLING"
	MomentumStable  Momentum = "STABLE"
)

// Config holds the per-call analysis parameters.
type Config struct {
	Radius   int // neighborhood radius, MinRadius..MaxRadius
	Lookback int // outcomes considered for rates
}

// DefaultConfig returns the standard radius-3, 50-spin configuration.
func DefaultConfig() Config {
	return Config{Radius: DefaultRadius, Lookback: DefaultLookback}
}

// Pattern is the full per-number neighborhood record.
type Pattern struct {
	Center       int
	Neighbors    []int // 2*radius+1 numbers in wheel order, center included
	Hits         int
	HitRate      float64 // percent of lookback landing in Neighbors
	ExpectedRate float64 // uniform-wheel null hypothesis, percent
	Lift         float64 // HitRate/ExpectedRate*100; 100 = as expected
	LastHitAgo   int     // rounds since any neighbor hit, over full history
	LeftRate     float64 // hit rate of the counter-clockwise half, center excluded
	RightRate    float64 // hit rate of the clockwise half, center excluded
	Momentum     Momentum
	Status       Status
}

// Analyze computes the 37 neighborhood patterns over the most recent
// cfg.Lookback outcomes, sorted by Lift descending (ties by center number).
// Histories shorter than MinHistory yield an empty result.
func Analyze(history domain.History, cfg Config) ([]Pattern, error) {
	if cfg.Radius == 0 {
		cfg.Radius = DefaultRadius
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.Radius < MinRadius || cfg.Radius > MaxRadius {
		return nil, fmt.Errorf("%w: %d", wheel.ErrInvalidRadius, cfg.Radius)
	}

	if len(history) < MinHistory {
		return nil, nil
	}

	lookback := cfg.Lookback
	if lookback > len(history) {
		lookback = len(history)
	}
	window := history.Window(lookback)
	halfWindow := history.Window(lookback / 2)

	patterns := make([]Pattern, 0, domain.WheelSize)
	for center := domain.MinNumber; center <= domain.MaxNumber; center++ {
		p, err := analyzeCenter(center, cfg.Radius, history, window, halfWindow, lookback)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Lift != patterns[j].Lift {
			return patterns[i].Lift > patterns[j].Lift
		}
		return patterns[i].Center < patterns[j].Center
	})
	return patterns, nil
}

func analyzeCenter(center, radius int, history, window, halfWindow domain.History, lookback int) (Pattern, error) {
	neighbors, err := wheel.Neighbors(center, radius)
	if err != nil {
		return Pattern{}, err
	}
	left, err := wheel.LeftNeighbors(center, radius)
	if err != nil {
		return Pattern{}, err
	}
	right, err := wheel.RightNeighbors(center, radius)
	if err != nil {
		return Pattern{}, err
	}

	inSet := make(map[int]bool, len(neighbors))
	for _, n := range neighbors {
		inSet[n] = true
	}

	hits := countIn(window, inSet)
	hitRate := percent(hits, lookback)

	expectedRate := float64(len(neighbors)) / float64(domain.WheelSize) * 100
	lift := 0.0
	if expectedRate > 0 {
		lift = hitRate / expectedRate * 100
	}

	p := Pattern{
		Center:       center,
		Neighbors:    neighbors,
		Hits:         hits,
		HitRate:      hitRate,
		ExpectedRate: expectedRate,
		Lift:         lift,
		LastHitAgo:   firstHitIndex(history, inSet),
		LeftRate:     percent(countIn(window, toSet(left)), lookback),
		RightRate:    percent(countIn(window, toSet(right)), lookback),
		Momentum:     momentum(halfWindow, inSet, hitRate),
		Status:       status(hitRate),
	}
	return p, nil
}

// momentum compares the hit rate of the most recent half-window against
// the full-lookback rate.
func momentum(halfWindow domain.History, inSet map[int]bool, fullRate float64) Momentum {
	if len(halfWindow) == 0 || fullRate == 0 {
		return MomentumStable
	}
	recentRate := percent(countIn(halfWindow, inSet), len(halfWindow))
	switch {
	case recentRate >= fullRate*HeatingRatio:
		return MomentumHeating
	case recentRate <= fullRate*CoolingRatio:
		return MomentumCooling
	default:
		return MomentumStable
	}
}

func status(hitRate float64) Status {
	switch {
	case hitRate >= ActiveRate:
		return StatusActive
	case hitRate >= ModerateRate:
		return StatusModerate
	default:
		return StatusInactive
	}
}

func countIn(window domain.History, set map[int]bool) int {
	hits := 0
	for _, o := range window {
		if set[o.Number] {
			hits++
		}
	}
	return hits
}

// firstHitIndex returns the newest-first index of the first outcome in the
// set, or len(history) if the set never hit.
func firstHitIndex(history domain.History, set map[int]bool) int {
	for i, o := range history {
		if set[o.Number] {
			return i
		}
	}
	return len(history)
}

func toSet(numbers []int) map[int]bool {
	set := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return set
}

func percent(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
