package sector

import (
	"reflect"
	"testing"

	"roulette-signal-lab/internal/domain"
)

// uniformCycle builds n outcomes cycling 0,1,...,36,0,...
func uniformCycle(n int) domain.History {
	nums := make([]int, n)
	for i := range nums {
		nums[i] = i % 37
	}
	return domain.HistoryFromNumbers(nums)
}

func TestAnalyze_AwaitingDataBelowMinimum(t *testing.T) {
	res := Analyze(uniformCycle(MinSpins-10), Config{})

	if res.Status != StatusAwaitingData {
		t.Fatalf("status = %s, want %s", res.Status, StatusAwaitingData)
	}
	if res.SpinsNeeded != 10 {
		t.Errorf("spins needed = %d, want 10", res.SpinsNeeded)
	}
	if res.Detected() {
		t.Error("awaiting-data result must not report a detection")
	}
}

func TestAnalyze_UniformHistoryHasNoSignificantSector(t *testing.T) {
	res := Analyze(uniformCycle(74), Config{})

	if res.Status != StatusNoPattern {
		t.Fatalf("status = %s, want %s", res.Status, StatusNoPattern)
	}
	if res.Best != nil {
		t.Errorf("uniform history flagged sector %s as significant", res.Best.Sector.ID)
	}
	for _, s := range res.Sectors {
		if s.ChiSquare > ChiSquareCritical {
			t.Errorf("sector %s chi = %f, should be well below %f on uniform data", s.Sector.ID, s.ChiSquare, ChiSquareCritical)
		}
	}
	// Best-effort candidate still populated for "no pattern" display.
	if res.Top == nil {
		t.Error("no-pattern result must still carry the top-deviation sector")
	}
}

func TestAnalyze_BiasedSectorDetected(t *testing.T) {
	// Recent window: half the spins land on number 5 (sector D),
	// the rest cycle uniformly. Older filler brings the total past MinSpins.
	nums := make([]int, 0, 60)
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			nums = append(nums, 5)
		} else {
			nums = append(nums, i%37)
		}
	}
	for i := 0; i < 30; i++ {
		nums = append(nums, i%37)
	}
	res := Analyze(domain.HistoryFromNumbers(nums), Config{})

	if !res.Detected() {
		t.Fatalf("expected biased sector detected, status = %s", res.Status)
	}
	if res.Best.Sector.ID != "D" {
		t.Errorf("best sector = %s, want D (holds number 5)", res.Best.Sector.ID)
	}
	if !res.Best.Significant {
		t.Error("best sector must be significant")
	}
	if res.Best.Precision <= 100 {
		t.Errorf("best sector precision = %f, want > 100", res.Best.Precision)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence = %f, want > 0", res.Confidence)
	}
	if res.Status != StatusVeryActive {
		t.Errorf("status = %s, want %s for an extreme bias", res.Status, StatusVeryActive)
	}
}

func TestAnalyze_WindowAndMinimumAreDistinctKnobs(t *testing.T) {
	// 40 spins: enough for a 30-spin window but below the 50-spin minimum.
	res := Analyze(uniformCycle(40), Config{})
	if res.Status != StatusAwaitingData {
		t.Errorf("40 spins must remain awaiting data, got %s", res.Status)
	}

	// Lowering MinSpins makes the same history analyzable.
	res = Analyze(uniformCycle(40), Config{MinSpins: 40})
	if res.Status == StatusAwaitingData {
		t.Error("custom MinSpins=40 should allow analysis of 40 spins")
	}
	if res.SpinsAnalyzed != DefaultSpins {
		t.Errorf("spins analyzed = %d, want window of %d", res.SpinsAnalyzed, DefaultSpins)
	}
}

func TestAnalyze_ExpectedRatesFollowSectorSizes(t *testing.T) {
	res := Analyze(uniformCycle(60), Config{})

	for _, s := range res.Sectors {
		want := float64(s.Sector.Size()) / 37 * 100
		if s.ExpectedRate != want {
			t.Errorf("sector %s expected rate = %f, want %f", s.Sector.ID, s.ExpectedRate, want)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	h := uniformCycle(80)

	first := Analyze(h, Config{})
	second := Analyze(h, Config{})

	if !reflect.DeepEqual(first.Sectors, second.Sectors) || first.Status != second.Status {
		t.Error("Analyze not idempotent over identical input")
	}
}
