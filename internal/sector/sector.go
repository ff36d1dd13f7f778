// Package sector detects dealer-signature bias: one of the six fixed wheel
// arcs receiving anomalously many hits versus the uniform expectation.
package sector

import (
	"math"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/wheel"
)

// Analysis constants.
const (
	// DefaultSpins is the window the rates are computed over; MinSpins is
	// the smallest total history for which any result is emitted. The two
	// are distinct knobs: a short feed stays in AWAITING_DATA even though
	// the window itself would fit.
	DefaultSpins = 30
	MinSpins     = 50

	// ChiSquareCritical is the 1-degree-of-freedom p<0.05 critical value.
	// A 6-way categorical comparison would call for 5 df (~11.07); the
	// 1-df per-sector approximation is kept for parity with the product's
	// established behavior.
	ChiSquareCritical = 3.84

	// Confidence heuristic weights: precision excess, relative deviation,
	// sample size.
	precisionWeight = 0.5
	deviationWeight = 0.3
	sampleWeight    = 0.2
)

// Status classifies the analysis outcome.
type Status string

const (
	StatusAwaitingData Status = "AWAITING_DATA"
	StatusNoPattern    Status = "NO_PATTERN"
	StatusVeryActive   Status = "VERY_ACTIVE"
	StatusActive       Status = "ACTIVE"
	StatusModerate     Status = "MODERATE"
	StatusWeak         Status = "WEAK"
)

// Config holds the per-call analysis parameters. Zero values select the
// defaults.
type Config struct {
	SpinsToAnalyze int
	MinSpins       int
}

// Stats is the per-sector measurement over the analysis window.
type Stats struct {
	Sector       wheel.Sector
	Hits         int
	ObservedRate float64 // percent of window
	ExpectedRate float64 // sector size / 37, percent
	Precision    float64 // ObservedRate/ExpectedRate*100
	Deviation    float64 // |ObservedRate - ExpectedRate|
	ChiSquare    float64 // (hits-expected)^2/expected
	Significant  bool    // ChiSquare > ChiSquareCritical
}

// Result is the full analysis output. Below MinSpins only Status and
// SpinsNeeded are meaningful. When no sector clears the significance bar,
// Best is nil but Top still carries the highest-deviation sector so
// consumers can show a best-effort, explicitly non-significant candidate.
type Result struct {
	Status        Status
	SpinsAnalyzed int
	SpinsNeeded   int // remaining spins until MinSpins, when awaiting data
	Sectors       []Stats
	Best          *Stats // significant sector with Precision > 100, highest deviation
	Top           *Stats // highest-deviation sector regardless of significance
	Confidence    float64
}

// Detected reports whether a significant biased sector was found.
func (r Result) Detected() bool {
	return r.Best != nil
}

// Analyze measures observed-vs-expected hit rates for all six sectors over
// the most recent cfg.SpinsToAnalyze outcomes.
func Analyze(history domain.History, cfg Config) Result {
	if cfg.SpinsToAnalyze <= 0 {
		cfg.SpinsToAnalyze = DefaultSpins
	}
	if cfg.MinSpins <= 0 {
		cfg.MinSpins = MinSpins
	}

	if len(history) < cfg.MinSpins {
		return Result{
			Status:      StatusAwaitingData,
			SpinsNeeded: cfg.MinSpins - len(history),
		}
	}

	window := history.Window(cfg.SpinsToAnalyze)
	spins := len(window)

	hitsBySector := make([]int, wheel.SectorCount)
	for _, o := range window {
		idx, err := wheel.SectorIndexOf(o.Number)
		if err != nil {
			continue
		}
		hitsBySector[idx]++
	}

	stats := make([]Stats, 0, wheel.SectorCount)
	for si, s := range wheel.Sectors() {
		hits := hitsBySector[si]

		expectedHits := float64(spins) * float64(s.Size()) / float64(domain.WheelSize)
		observedRate := float64(hits) / float64(spins) * 100
		expectedRate := float64(s.Size()) / float64(domain.WheelSize) * 100

		chi := 0.0
		if expectedHits > 0 {
			diff := float64(hits) - expectedHits
			chi = diff * diff / expectedHits
		}

		stats = append(stats, Stats{
			Sector:       s,
			Hits:         hits,
			ObservedRate: observedRate,
			ExpectedRate: expectedRate,
			Precision:    observedRate / expectedRate * 100,
			Deviation:    math.Abs(observedRate - expectedRate),
			ChiSquare:    chi,
			Significant:  chi > ChiSquareCritical,
		})
	}

	res := Result{
		SpinsAnalyzed: spins,
		Sectors:       stats,
	}

	for i := range stats {
		s := &stats[i]
		if res.Top == nil || s.Deviation > res.Top.Deviation {
			res.Top = s
		}
		if s.Significant && s.Precision > 100 {
			if res.Best == nil || s.Deviation > res.Best.Deviation {
				res.Best = s
			}
		}
	}

	if res.Best == nil {
		res.Status = StatusNoPattern
		return res
	}

	res.Confidence = confidence(*res.Best, spins)
	res.Status = bucket(res.Best.Precision, res.Confidence)
	return res
}

// confidence combines precision excess, relative deviation and sample size
// into a 0-100 heuristic.
func confidence(best Stats, spins int) float64 {
	c := (best.Precision-100)*precisionWeight +
		(best.Deviation/best.ExpectedRate*100)*deviationWeight +
		(float64(spins)/100)*sampleWeight
	return clamp(c, 0, 100)
}

func bucket(precision, conf float64) Status {
	switch {
	case precision >= 140 && conf >= 60:
		return StatusVeryActive
	case precision >= 125 && conf >= 40:
		return StatusActive
	case precision >= 115 && conf >= 30:
		return StatusModerate
	default:
		return StatusWeak
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
