package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"roulette-signal-lab/internal/domain"
	"roulette-signal-lab/internal/storage"
)

func outcome(spinID string, number int, ts int64) *domain.Outcome {
	return &domain.Outcome{
		SpinID:      spinID,
		Table:       "table-1",
		Number:      number,
		TimestampMs: ts,
	}
}

func TestOutcomeStore_InsertAndGet(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	o := outcome("spin-1", 17, 1704067200000)
	if err := store.Insert(ctx, o); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetBySpinID(ctx, "spin-1")
	if err != nil {
		t.Fatalf("GetBySpinID failed: %v", err)
	}
	if got.Number != 17 || got.Table != "table-1" {
		t.Errorf("got %+v, want number 17 on table-1", got)
	}
}

func TestOutcomeStore_DuplicateKey(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	o := outcome("spin-1", 17, 1704067200000)
	if err := store.Insert(ctx, o); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, o); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOutcomeStore_RejectsInvalidNumber(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, outcome("spin-bad", 37, 0)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for number 37, got %v", err)
	}
}

func TestOutcomeStore_GetRecentNewestFirst(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		o := outcome(fmt.Sprintf("spin-%d", i), i, int64(1000+i))
		if err := store.Insert(ctx, o); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	history, err := store.GetRecent(ctx, "table-1", 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(history))
	}
	// Newest first: timestamps 1004, 1003, 1002.
	if history[0].Number != 4 || history[1].Number != 3 || history[2].Number != 2 {
		t.Errorf("wrong order: %v", history.Numbers())
	}
}

func TestOutcomeStore_GetRecentUnlimited(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := store.Insert(ctx, outcome(fmt.Sprintf("spin-%d", i), i, int64(i))); err != nil {
			t.Fatal(err)
		}
	}

	history, err := store.GetRecent(ctx, "table-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 {
		t.Errorf("limit 0 should return all, got %d", len(history))
	}
}

func TestOutcomeStore_TablesAreIsolated(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	a := outcome("spin-a", 1, 100)
	b := outcome("spin-b", 2, 200)
	b.Table = "table-2"
	if err := store.Insert(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, b); err != nil {
		t.Fatal(err)
	}

	history, err := store.GetRecent(ctx, "table-2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Number != 2 {
		t.Errorf("table-2 history = %v, want only spin-b", history.Numbers())
	}

	count, err := store.CountByTable(ctx, "table-1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("table-1 count = %d, want 1", count)
	}
}

func TestOutcomeStore_GetByTimeRange(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := store.Insert(ctx, outcome(fmt.Sprintf("spin-%d", i), i, int64(i*100))); err != nil {
			t.Fatal(err)
		}
	}

	history, err := store.GetByTimeRange(ctx, "table-1", 200, 500)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 outcomes in [200,500], got %d", len(history))
	}
	if history[0].TimestampMs != 500 {
		t.Errorf("range results not newest first: %+v", history[0])
	}
}

func TestOutcomeStore_InsertBulkAtomic(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, outcome("spin-1", 1, 100)); err != nil {
		t.Fatal(err)
	}

	batch := []*domain.Outcome{
		outcome("spin-2", 2, 200),
		outcome("spin-1", 1, 100), // duplicate
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The whole batch must have been rejected.
	if _, err := store.GetBySpinID(ctx, "spin-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("spin-2 should not exist after failed batch, got %v", err)
	}
}

func TestOutcomeStore_ConcurrentInserts(t *testing.T) {
	store := NewOutcomeStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Insert(ctx, outcome(fmt.Sprintf("spin-%d", i), i%37, int64(i)))
		}(i)
	}
	wg.Wait()

	count, err := store.CountByTable(ctx, "table-1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}
