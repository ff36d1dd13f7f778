// Package scoring runs the five independent strategies over one history
// snapshot, normalizes each into a 0-100 score with a traffic-light
// status, and fuses them into a convergence-based entry signal. Evaluate
// is a pure function: identical input produces identical output, with no
// state carried between calls.
package scoring

import (
	"fmt"
	"sort"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/frequency"
	"roulette-signal-lab/internal/neighborhood"
	"roulette-signal-lab/internal/sector"
	"roulette-signal-lab/internal/wheel"
)

// Aggregation constants.
const (
	// MinHistory is the smallest history the aggregator scores; below it
	// the report is empty rather than partial and noisy.
	MinHistory = 50

	// ConvergenceThreshold is the green-strategy count that triggers an
	// entry signal.
	ConvergenceThreshold = 3

	// SignalNumbers caps the suggested numbers in an entry signal.
	SignalNumbers = 5

	// ValidForRounds is how many upcoming spins an entry signal covers.
	ValidForRounds = 2

	// Score thresholds for the traffic-light statuses.
	GreenScore  = 60.0
	YellowScore = 35.0

	// Frequency-view windows for the terminal and sector strategies.
	TerminalWindow = 30
	SectorWindow   = 30

	// HiddenCount is how many longest-absent numbers the hidden-numbers
	// strategy suggests.
	HiddenCount = 5
)

// Strategy names, in evaluation order. The order is part of the contract:
// entry-signal ties resolve by it.
const (
	StrategyTerminals       = "terminals"
	StrategySectors         = "sectors"
	StrategyNeighborhoods   = "neighborhoods"
	StrategyDealerSignature = "dealer-signature"
	StrategyHiddenNumbers   = "hidden-numbers"
)

// Config carries the analyzer configurations the strategies run with.
// Zero values select each analyzer's defaults.
type Config struct {
	Neighborhood neighborhood.Config
	Sector       sector.Config
}

// Report is the full aggregation output for one history snapshot.
type Report struct {
	Strategies    []domain.AnalyzerResult
	Assertiveness float64             // mean score of green/yellow strategies
	Signal        *domain.EntrySignal // nil unless convergence reached
}

// Evaluate scores the five strategies over the history. Histories shorter
// than MinHistory yield an empty report (no strategies, nil signal).
func Evaluate(history domain.History, cfg Config) Report {
	if len(history) < MinHistory {
		return Report{}
	}

	strategies := []domain.AnalyzerResult{
		terminalStrategy(history),
		sectorStrategy(history),
		neighborhoodStrategy(history, cfg.Neighborhood),
		dealerSignatureStrategy(history, cfg.Sector),
		hiddenNumbersStrategy(history),
	}

	return Report{
		Strategies:    strategies,
		Assertiveness: Assertiveness(strategies),
		Signal:        BuildEntrySignal(strategies),
	}
}

// Assertiveness returns the mean score over strategies currently in green
// or yellow status, 0 when none are active.
func Assertiveness(strategies []domain.AnalyzerResult) float64 {
	sum, n := 0.0, 0
	for _, s := range strategies {
		if s.Status == domain.StatusGreen || s.Status == domain.StatusYellow {
			sum += s.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BuildEntrySignal fuses strategy results into an entry signal when at
// least ConvergenceThreshold strategies are green. Suggested numbers are
// the union of the green strategies' numbers ranked by occurrence count;
// ties resolve by the order numbers first appeared in evaluation order.
func BuildEntrySignal(strategies []domain.AnalyzerResult) *domain.EntrySignal {
	var greens []domain.AnalyzerResult
	for _, s := range strategies {
		if s.Status == domain.StatusGreen {
			greens = append(greens, s)
		}
	}
	if len(greens) < ConvergenceThreshold {
		return nil
	}

	type entry struct {
		number    int
		count     int
		firstSeen int
	}
	index := make(map[int]*entry)
	var ordered []*entry
	for _, g := range greens {
		for _, n := range g.Numbers {
			e, ok := index[n]
			if !ok {
				e = &entry{number: n, firstSeen: len(ordered)}
				index[n] = e
				ordered = append(ordered, e)
			}
			e.count++
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].firstSeen < ordered[j].firstSeen
	})

	numbers := make([]int, 0, SignalNumbers)
	for _, e := range ordered {
		if len(numbers) == SignalNumbers {
			break
		}
		numbers = append(numbers, e.number)
	}

	reasons := make([]string, len(greens))
	for i, g := range greens {
		reasons[i] = g.Analyzer
	}

	return &domain.EntrySignal{
		ConvergenceCount: len(greens),
		Numbers:          numbers,
		Confidence:       Assertiveness(strategies),
		ValidForRounds:   ValidForRounds,
		Reasons:          reasons,
	}
}

// terminalStrategy scores the hottest terminal (last digit) against its
// uniform expectation over the recent window.
func terminalStrategy(history domain.History) domain.AnalyzerResult {
	window := len(history.Window(TerminalWindow))
	counts := frequency.CountsByTerminal(history, TerminalWindow)

	bestTerminal, bestRatio := 0, 0.0
	for t := 0; t < domain.TerminalMod; t++ {
		expected := float64(window) * float64(frequency.TerminalGroupSize(t)) / float64(domain.WheelSize)
		ratio := float64(counts[t]) / expected
		if ratio > bestRatio {
			bestTerminal, bestRatio = t, ratio
		}
	}

	score := clampScore((bestRatio - 1) * 100)
	return domain.AnalyzerResult{
		Analyzer: StrategyTerminals,
		Score:    score,
		Status:   statusFor(score),
		Signal:   fmt.Sprintf("terminal %d at %.1fx expected over last %d spins", bestTerminal, bestRatio, window),
		Numbers:  frequency.TerminalNumbers(bestTerminal),
	}
}

// sectorStrategy scores the hottest wheel sector by raw frequency over the
// recent window (the dealer-signature strategy adds significance testing
// on top of the same partition).
func sectorStrategy(history domain.History) domain.AnalyzerResult {
	window := len(history.Window(SectorWindow))
	counts := frequency.CountsBySector(history, SectorWindow)
	sectors := wheel.Sectors()

	bestIdx, bestRatio := 0, 0.0
	for i, s := range sectors {
		expected := float64(window) * float64(s.Size()) / float64(domain.WheelSize)
		ratio := float64(counts[i]) / expected
		if ratio > bestRatio {
			bestIdx, bestRatio = i, ratio
		}
	}

	best := sectors[bestIdx]
	score := clampScore((bestRatio - 1) * 100)
	return domain.AnalyzerResult{
		Analyzer: StrategySectors,
		Score:    score,
		Status:   statusFor(score),
		Signal:   fmt.Sprintf("sector %s (%s) at %.1fx expected over last %d spins", best.ID, best.Name, bestRatio, window),
		Numbers:  append([]int(nil), best.Numbers...),
	}
}

// neighborhoodStrategy scores the top neighborhood pattern by lift.
func neighborhoodStrategy(history domain.History, cfg neighborhood.Config) domain.AnalyzerResult {
	patterns, err := neighborhood.Analyze(history, cfg)
	if err != nil || len(patterns) == 0 {
		return domain.AnalyzerResult{
			Analyzer: StrategyNeighborhoods,
			Status:   domain.StatusOrange,
			Signal:   "insufficient data for neighborhood analysis",
		}
	}

	top := patterns[0]
	score := clampScore(top.Lift - 100)
	return domain.AnalyzerResult{
		Analyzer: StrategyNeighborhoods,
		Score:    score,
		Status:   statusFor(score),
		Signal: fmt.Sprintf("neighborhood of %d at lift %.0f, %s",
			top.Center, top.Lift, top.Momentum),
		Numbers: append([]int(nil), top.Neighbors...),
	}
}

// dealerSignatureStrategy wraps the sector-bias significance test.
func dealerSignatureStrategy(history domain.History, cfg sector.Config) domain.AnalyzerResult {
	res := sector.Analyze(history, cfg)
	if !res.Detected() {
		signal := "no dealer signature detected"
		if res.Status == sector.StatusAwaitingData {
			signal = fmt.Sprintf("awaiting %d more spins", res.SpinsNeeded)
		}
		return domain.AnalyzerResult{
			Analyzer: StrategyDealerSignature,
			Status:   domain.StatusOrange,
			Signal:   signal,
		}
	}

	score := clampScore(res.Confidence)
	return domain.AnalyzerResult{
		Analyzer: StrategyDealerSignature,
		Score:    score,
		Status:   statusFor(score),
		Signal: fmt.Sprintf("sector %s biased: precision %.0f, chi %.2f",
			res.Best.Sector.ID, res.Best.Precision, res.Best.ChiSquare),
		Numbers: append([]int(nil), res.Best.Sector.Numbers...),
	}
}

// hiddenNumbersStrategy ranks the longest-absent numbers: the further a
// number is past a full wheel cycle without hitting, the higher the score.
func hiddenNumbersStrategy(history domain.History) domain.AnalyzerResult {
	absence := frequency.AbsenceOfAll(history)

	type hidden struct{ number, absence int }
	ranked := make([]hidden, 0, domain.WheelSize)
	for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
		ranked = append(ranked, hidden{number: n, absence: absence[n]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].absence != ranked[j].absence {
			return ranked[i].absence > ranked[j].absence
		}
		return ranked[i].number < ranked[j].number
	})

	numbers := make([]int, 0, HiddenCount)
	for _, h := range ranked[:HiddenCount] {
		numbers = append(numbers, h.number)
	}

	maxAbsence := ranked[0].absence
	score := clampScore((float64(maxAbsence)/float64(domain.WheelSize) - 1) * 100)
	return domain.AnalyzerResult{
		Analyzer: StrategyHiddenNumbers,
		Score:    score,
		Status:   statusFor(score),
		Signal:   fmt.Sprintf("%d absent for %d rounds", ranked[0].number, maxAbsence),
		Numbers:  numbers,
	}
}

func statusFor(score float64) domain.StrategyStatus {
	switch {
	case score >= GreenScore:
		return domain.StatusGreen
	case score >= YellowScore:
		return domain.StatusYellow
	default:
		return domain.StatusOrange
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
