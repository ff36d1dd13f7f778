package domain

// SignalSnapshot is the per-evaluation aggregator record archived for
// after-the-fact signal review. Corresponds to the signal_snapshots table
// in ClickHouse.
type SignalSnapshot struct {
	Table            string   // feed/table identifier
	TimestampMs      int64    // evaluation time, Unix ms
	SpinID           string   // newest spin at evaluation time
	HistoryLength    int      // outcomes available to the evaluation
	Assertiveness    float64  // mean score of active strategies
	ConvergenceCount int      // green strategies; 0 when no signal
	Confidence       float64  // entry-signal confidence, 0 when no signal
	Numbers          []int32  // suggested numbers, empty when no signal
	Reasons          []string // triggering strategy names
	SectorStatus     string   // dealer-signature status at evaluation time
	BestSectorID     string   // biased sector id, empty when none
}
