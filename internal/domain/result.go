package domain

// Temperature classifies per-number/per-terminal activity levels.
type Temperature string

const (
	TempHot    Temperature = "HOT"
	TempWarm   Temperature = "WARM"
	TempNormal Temperature = "NORMAL"
	TempCool   Temperature = "COOL"
	TempCold   Temperature = "COLD"
)

// StrategyStatus is the traffic-light state a strategy reduces to.
type StrategyStatus string

const (
	StatusGreen  StrategyStatus = "GREEN"
	StatusYellow StrategyStatus = "YELLOW"
	StatusOrange StrategyStatus = "ORANGE"
)

// AnalyzerResult is the uniform per-strategy record the aggregator exposes
// to the presentation layer. Each analyzer's structured output is reduced
// to this shape at the aggregator boundary; it is recomputed fresh on every
// evaluation and never mutated.
type AnalyzerResult struct {
	Analyzer string         // strategy name
	Score    float64        // normalized 0-100
	Status   StrategyStatus // GREEN | YELLOW | ORANGE
	Signal   string         // human-readable description
	Numbers  []int          // suggested numbers, strongest first
}

// EntrySignal is the aggregator's final recommendation, emitted only when
// enough strategies converge. Absent (nil) otherwise.
type EntrySignal struct {
	ConvergenceCount int      // strategies in GREEN status
	Numbers          []int    // top suggestions by cross-strategy occurrence
	Confidence       float64  // global assertiveness, 0-100
	ValidForRounds   int      // how many upcoming spins the signal covers
	Reasons          []string // names of the triggering strategies
}
