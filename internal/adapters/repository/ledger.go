package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/okian/byline/internal/domain/aggregate"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/metrics"
)

// Ledger holds one season's totals in memory and is the single writer in
// front of aggregate.ApplyPeriod. In strict mode (the default) a period
// already counted for an identity is refused.
type Ledger struct {
	mu     sync.RWMutex
	season int
	totals aggregate.Totals
	keys   []string // sorted; nil when stale
	strict bool
	clock  func() time.Time
}

// NewLedger creates an empty ledger for season.
func NewLedger(season int, opts ...Option) *Ledger {
	l := &Ledger{
		season: season,
		totals: make(aggregate.Totals),
		strict: true,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Season returns the season the ledger aggregates.
func (l *Ledger) Season() int { return l.season }

// Apply adds one period for p.IdentityKey.
func (l *Ledger) Apply(_ context.Context, p model.PeriodPerformance) (*model.SeasonTotals, error) {
	start := time.Now()
	if p.IdentityKey == "" {
		return nil, fmt.Errorf("%w: empty identity key", ErrInvalidPerformance)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, known := l.totals[p.IdentityKey]
	if l.strict && known && slices.Contains(existing.Periods, p.Period) {
		metrics.RecordPeriodDuplicate()
		return existing.Clone(), fmt.Errorf("%w: %s period %d", ErrDuplicatePeriod, p.IdentityKey, p.Period)
	}

	aggregate.ApplyPeriod(l.totals, p.IdentityKey, p)
	t := l.totals[p.IdentityKey]
	t.UpdatedAt = l.clock().UTC()
	if !known {
		l.keys = nil
		metrics.UpdateIdentitiesTracked(len(l.totals))
	}

	metrics.RecordPeriodApplied(metrics.SinceMs(start))
	return t.Clone(), nil
}

// Get returns a copy of the totals for key, or ErrNotFound.
func (l *Ledger) Get(_ context.Context, key string) (*model.SeasonTotals, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.totals[key]
	if !ok {
		metrics.RecordErrorByComponent("ledger", "not_found")
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return t.Clone(), nil
}

// List returns up to limit totals ordered by identity key, starting at offset,
// together with the total number of identities.
func (l *Ledger) List(_ context.Context, offset, limit int) ([]*model.SeasonTotals, int, error) {
	if limit <= 0 || offset < 0 {
		metrics.RecordErrorByComponent("ledger", "invalid_limit")
		return nil, 0, ErrInvalidLimit
	}

	// Write lock: the sorted key cache may be rebuilt.
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := l.sortedKeys()
	total := len(keys)
	if offset >= total {
		return []*model.SeasonTotals{}, total, nil
	}
	end := min(offset+limit, total)
	out := make([]*model.SeasonTotals, 0, end-offset)
	for _, k := range keys[offset:end] {
		out = append(out, l.totals[k].Clone())
	}
	return out, total, nil
}

// sortedKeys must be called with the write lock held.
func (l *Ledger) sortedKeys() []string {
	if l.keys == nil {
		l.keys = l.totals.Keys()
	}
	return l.keys
}

// Count returns the number of identities tracked.
func (l *Ledger) Count(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.totals)
}

// Replace swaps the whole state, e.g. after a rebuild.
func (l *Ledger) Replace(_ context.Context, totals aggregate.Totals) {
	if totals == nil {
		totals = make(aggregate.Totals)
	}
	ts := l.clock().UTC()
	for _, t := range totals {
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = ts
		}
	}

	l.mu.Lock()
	l.totals = totals
	l.keys = nil
	l.mu.Unlock()

	metrics.UpdateIdentitiesTracked(len(totals))
}

// Snapshot returns copies of every entry ordered by identity key.
func (l *Ledger) Snapshot(_ context.Context) []*model.SeasonTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*model.SeasonTotals, 0, len(l.totals))
	for _, t := range l.totals {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IdentityKey < out[j].IdentityKey })
	return out
}
