package ingestion

import (
	"context"
	"testing"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage/memory"
)

func TestManager_IngestsAndTriggersHandler(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOutcomeStore()

	var calls int
	var lastHistory domain.History

	mgr := NewManager(ManagerOptions{
		Source: &StubSource{
			Table:   "table-1",
			Numbers: []int{5, 9, 17},
			StartMs: 1000,
			StepMs:  100,
		},
		Store: store,
		Handler: func(_ context.Context, _ *domain.Outcome, h domain.History) error {
			calls++
			lastHistory = h
			return nil
		},
		Lookback: 50,
	})

	accepted, err := mgr.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if accepted != 3 {
		t.Errorf("accepted = %d, want 3", accepted)
	}
	if calls != 3 {
		t.Errorf("handler calls = %d, want 3", calls)
	}
	// Final history is newest first.
	if len(lastHistory) != 3 || lastHistory[0].Number != 17 {
		t.Errorf("last history = %v, want [17 9 5]", lastHistory.Numbers())
	}

	count, err := store.CountByTable(ctx, "table-1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("stored count = %d, want 3", count)
	}
}

func TestManager_SkipsReplayedSpins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOutcomeStore()

	source := &StubSource{
		Table:   "table-1",
		Numbers: []int{5, 9},
		StartMs: 1000,
		StepMs:  100,
	}

	var calls int
	handler := func(_ context.Context, _ *domain.Outcome, _ domain.History) error {
		calls++
		return nil
	}

	mgr := NewManager(ManagerOptions{Source: source, Store: store, Handler: handler})

	accepted, err := mgr.Run(ctx)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if accepted != 2 {
		t.Fatalf("first run accepted = %d, want 2", accepted)
	}

	// Same source config replays identical spin ids.
	accepted, err = mgr.Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if accepted != 0 {
		t.Errorf("replay accepted = %d, want 0", accepted)
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestManager_DropsInvalidNumbers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOutcomeStore()

	// StubSource filters invalid numbers itself, so feed the manager
	// directly through a source that does not validate.
	mgr := NewManager(ManagerOptions{
		Source: sourceFunc(func(ctx context.Context) (<-chan *domain.Outcome, error) {
			out := make(chan *domain.Outcome, 2)
			out <- &domain.Outcome{SpinID: "bad", Table: "table-1", Number: 40}
			out <- &domain.Outcome{SpinID: "good", Table: "table-1", Number: 4}
			close(out)
			return out, nil
		}),
		Store: store,
	})

	accepted, err := mgr.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if accepted != 1 {
		t.Errorf("accepted = %d, want 1", accepted)
	}
}

func TestStubSource_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &StubSource{Table: "table-1", Numbers: []int{1, 2, 3}}
	out, err := source.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Channel must close without requiring the consumer to drain.
	n := 0
	for range out {
		n++
	}
	if n > 1 {
		t.Errorf("emitted %d outcomes after cancel", n)
	}
}

// sourceFunc adapts a function to the OutcomeSource interface.
type sourceFunc func(ctx context.Context) (<-chan *domain.Outcome, error)

func (f sourceFunc) Subscribe(ctx context.Context) (<-chan *domain.Outcome, error) {
	return f(ctx)
}
