package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/byline/internal/domain/aggregate"
	"github.com/okian/byline/internal/domain/model"
)

func period(key string, week int, ppr float64) model.PeriodPerformance {
	return model.PeriodPerformance{
		IdentityKey: key,
		PlayerName:  "Player " + key,
		Season:      2025,
		Period:      week,
		Points:      &model.Points{Standard: ppr - 2, HalfPPR: ppr - 1, PPR: ppr},
	}
}

func TestLedger_BasicOperations(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	l := NewLedger(2025, WithClock(func() time.Time { return fixed }))

	if l.Season() != 2025 {
		t.Errorf("expected season 2025, got %d", l.Season())
	}
	if n := l.Count(ctx); n != 0 {
		t.Errorf("expected count 0, got %d", n)
	}

	got, err := l.Apply(ctx, period("a", 1, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GamesCounted != 1 || got.Points.PPR != 20 {
		t.Errorf("unexpected totals after first apply: %+v", got)
	}
	if !got.UpdatedAt.Equal(fixed) {
		t.Errorf("expected UpdatedAt %v, got %v", fixed, got.UpdatedAt)
	}

	if _, err := l.Apply(ctx, period("a", 2, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = l.Get(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GamesCounted != 2 || got.Averages.PPR != 15 {
		t.Errorf("expected 2 games averaging 15, got %d / %v", got.GamesCounted, got.Averages.PPR)
	}

	// Returned values are copies.
	got.GamesCounted = 99
	again, _ := l.Get(ctx, "a")
	if again.GamesCounted != 2 {
		t.Errorf("ledger state leaked through Get")
	}
}

func TestLedger_DuplicatePeriod(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(2025)

	if _, err := l.Apply(ctx, period("a", 3, 12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := l.Apply(ctx, period("a", 3, 12))
	if !errors.Is(err, ErrDuplicatePeriod) {
		t.Fatalf("expected ErrDuplicatePeriod, got %v", err)
	}
	if got.GamesCounted != 1 {
		t.Errorf("duplicate changed games counted: %d", got.GamesCounted)
	}

	loose := NewLedger(2025, WithStrictPeriods(false))
	_, _ = loose.Apply(ctx, period("a", 3, 12))
	got, err = loose.Apply(ctx, period("a", 3, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GamesCounted != 2 {
		t.Errorf("non-strict ledger should accumulate, got %d games", got.GamesCounted)
	}
}

func TestLedger_Errors(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(2025)

	if _, err := l.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.Apply(ctx, model.PeriodPerformance{Period: 1}); !errors.Is(err, ErrInvalidPerformance) {
		t.Errorf("expected ErrInvalidPerformance, got %v", err)
	}
	if _, _, err := l.List(ctx, 0, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, _, err := l.List(ctx, -1, 10); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit for negative offset, got %v", err)
	}
}

func TestLedger_List(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(2025)
	for _, k := range []string{"c", "a", "e", "b", "d"} {
		if _, err := l.Apply(ctx, period(k, 1, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, total, err := l.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(page) != 2 || page[0].IdentityKey != "b" || page[1].IdentityKey != "c" {
		t.Errorf("unexpected page: %v", keysOf(page))
	}

	// A new key invalidates the ordering cache.
	if _, err := l.Apply(ctx, period("aa", 1, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, _, _ = l.List(ctx, 0, 3)
	if got := keysOf(page); fmt.Sprint(got) != "[a aa b]" {
		t.Errorf("unexpected order after insert: %v", got)
	}

	page, total, _ = l.List(ctx, 10, 3)
	if len(page) != 0 || total != 6 {
		t.Errorf("expected empty page past the end, got %d entries of %d", len(page), total)
	}
}

func TestLedger_ReplaceAndSnapshot(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(2025)
	_, _ = l.Apply(ctx, period("old", 1, 10))

	rebuilt := aggregate.Rebuild(aggregate.Dedupe([]model.PeriodPerformance{
		period("x", 1, 10), period("y", 1, 20), period("x", 2, 30),
	}))
	l.Replace(ctx, rebuilt)

	if l.Count(ctx) != 2 {
		t.Fatalf("expected 2 identities after replace, got %d", l.Count(ctx))
	}
	if _, err := l.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("replace should drop previous state")
	}
	snap := l.Snapshot(ctx)
	if fmt.Sprint(keysOf(snap)) != "[x y]" {
		t.Errorf("unexpected snapshot order: %v", keysOf(snap))
	}
	if snap[0].GamesCounted != 2 || snap[0].UpdatedAt.IsZero() {
		t.Errorf("unexpected snapshot entry: %+v", snap[0])
	}

	l.Replace(ctx, nil)
	if l.Count(ctx) != 0 {
		t.Errorf("replace with nil should empty the ledger")
	}
}

func TestLedger_ConcurrentApply(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(2025)

	var wg sync.WaitGroup
	for w := 1; w <= 17; w++ {
		for _, k := range []string{"a", "b", "c"} {
			wg.Add(2)
			p := period(k, w, 1)
			// The same period twice, concurrently: exactly one must count.
			go func() { defer wg.Done(); _, _ = l.Apply(ctx, p) }()
			go func() { defer wg.Done(); _, _ = l.Apply(ctx, p) }()
		}
	}
	wg.Wait()

	for _, k := range []string{"a", "b", "c"} {
		got, err := l.Get(ctx, k)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.GamesCounted != 17 {
			t.Errorf("%s: expected 17 games, got %d", k, got.GamesCounted)
		}
	}
}

func keysOf(ts []*model.SeasonTotals) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.IdentityKey
	}
	return out
}
