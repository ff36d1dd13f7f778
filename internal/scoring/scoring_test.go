package scoring

import (
	"reflect"
	"testing"

	"roulette-signal-lab/internal/domain"
)

func uniformCycle(n int) domain.History {
	nums := make([]int, n)
	for i := range nums {
		nums[i] = i % 37
	}
	return domain.HistoryFromNumbers(nums)
}

func TestEvaluate_BelowMinimumIsEmpty(t *testing.T) {
	report := Evaluate(uniformCycle(MinHistory-1), Config{})

	if len(report.Strategies) != 0 {
		t.Errorf("expected no strategy scores below %d outcomes, got %d", MinHistory, len(report.Strategies))
	}
	if report.Signal != nil {
		t.Error("expected nil entry signal below minimum history")
	}
	if report.Assertiveness != 0 {
		t.Errorf("assertiveness = %f, want 0", report.Assertiveness)
	}
}

func TestEvaluate_UniformHistoryStaysQuiet(t *testing.T) {
	report := Evaluate(uniformCycle(60), Config{})

	if len(report.Strategies) != 5 {
		t.Fatalf("expected 5 strategies, got %d", len(report.Strategies))
	}
	if report.Signal != nil {
		t.Errorf("uniform history must not signal, got %+v", report.Signal)
	}
	for _, s := range report.Strategies {
		if s.Status == domain.StatusGreen {
			t.Errorf("strategy %s green on uniform data (score %f)", s.Analyzer, s.Score)
		}
	}
}

func TestEvaluate_DominantNumberConverges(t *testing.T) {
	// A wildly biased feed: number 5 on every other spin.
	nums := make([]int, 60)
	for i := range nums {
		if i%2 == 0 {
			nums[i] = 5
		} else {
			nums[i] = i % 37
		}
	}
	report := Evaluate(domain.HistoryFromNumbers(nums), Config{})

	if report.Signal == nil {
		t.Fatal("expected entry signal for heavily biased feed")
	}
	if report.Signal.ConvergenceCount < ConvergenceThreshold {
		t.Errorf("convergence count = %d, want >= %d", report.Signal.ConvergenceCount, ConvergenceThreshold)
	}
	if len(report.Signal.Numbers) == 0 || len(report.Signal.Numbers) > SignalNumbers {
		t.Fatalf("signal numbers = %v, want 1..%d entries", report.Signal.Numbers, SignalNumbers)
	}
	found := false
	for _, n := range report.Signal.Numbers {
		if n == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("dominant number 5 missing from suggestions %v", report.Signal.Numbers)
	}
	if report.Signal.ValidForRounds != ValidForRounds {
		t.Errorf("valid for rounds = %d, want %d", report.Signal.ValidForRounds, ValidForRounds)
	}
	if report.Signal.Confidence != report.Assertiveness {
		t.Errorf("confidence %f should equal assertiveness %f", report.Signal.Confidence, report.Assertiveness)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	h := uniformCycle(80)

	first := Evaluate(h, Config{})
	second := Evaluate(h, Config{})

	if !reflect.DeepEqual(first, second) {
		t.Error("Evaluate not idempotent over identical input")
	}
}

func green(name string, score float64, numbers ...int) domain.AnalyzerResult {
	return domain.AnalyzerResult{Analyzer: name, Score: score, Status: domain.StatusGreen, Numbers: numbers}
}

func TestBuildEntrySignal_ExactlyThreeGreens(t *testing.T) {
	strategies := []domain.AnalyzerResult{
		green("a", 80, 5, 10, 23),
		green("b", 70, 5, 10),
		{Analyzer: "c", Score: 40, Status: domain.StatusYellow, Numbers: []int{1}},
		green("d", 65, 5, 8),
		{Analyzer: "e", Score: 10, Status: domain.StatusOrange, Numbers: []int{2}},
	}

	signal := BuildEntrySignal(strategies)
	if signal == nil {
		t.Fatal("expected entry signal with 3 green strategies")
	}
	if signal.ConvergenceCount != 3 {
		t.Errorf("convergence count = %d, want 3", signal.ConvergenceCount)
	}
	// 5 occurs 3x, 10 occurs 2x; 23 and 8 tie at 1 and resolve by first
	// appearance in evaluation order.
	want := []int{5, 10, 23, 8}
	if !reflect.DeepEqual(signal.Numbers, want) {
		t.Errorf("numbers = %v, want %v", signal.Numbers, want)
	}
	if !reflect.DeepEqual(signal.Reasons, []string{"a", "b", "d"}) {
		t.Errorf("reasons = %v, want green names in order", signal.Reasons)
	}
	// Assertiveness over green+yellow: (80+70+40+65)/4.
	if signal.Confidence != 63.75 {
		t.Errorf("confidence = %f, want 63.75", signal.Confidence)
	}
}

func TestBuildEntrySignal_TwoGreensNotEnough(t *testing.T) {
	strategies := []domain.AnalyzerResult{
		green("a", 80, 5),
		green("b", 70, 6),
		{Analyzer: "c", Status: domain.StatusOrange},
		{Analyzer: "d", Status: domain.StatusOrange},
		{Analyzer: "e", Status: domain.StatusOrange},
	}
	if signal := BuildEntrySignal(strategies); signal != nil {
		t.Errorf("2 greens must not signal, got %+v", signal)
	}
}

func TestBuildEntrySignal_CapsAtFiveNumbers(t *testing.T) {
	strategies := []domain.AnalyzerResult{
		green("a", 90, 1, 2, 3, 4),
		green("b", 90, 5, 6, 7, 8),
		green("c", 90, 1, 5, 9),
	}

	signal := BuildEntrySignal(strategies)
	if signal == nil {
		t.Fatal("expected signal")
	}
	if len(signal.Numbers) != SignalNumbers {
		t.Errorf("numbers = %v, want exactly %d", signal.Numbers, SignalNumbers)
	}
	// 1 and 5 lead with two occurrences each; the remaining slots follow
	// first-appearance order.
	want := []int{1, 5, 2, 3, 4}
	if !reflect.DeepEqual(signal.Numbers, want) {
		t.Errorf("numbers = %v, want %v", signal.Numbers, want)
	}
}

func TestAssertiveness_NoActiveStrategiesIsZero(t *testing.T) {
	strategies := []domain.AnalyzerResult{
		{Analyzer: "a", Score: 20, Status: domain.StatusOrange},
		{Analyzer: "b", Score: 10, Status: domain.StatusOrange},
	}
	if got := Assertiveness(strategies); got != 0 {
		t.Errorf("assertiveness = %f, want 0", got)
	}
}
