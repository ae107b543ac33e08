// Package aggregate folds weekly performances into running season totals.
//
// ApplyPeriod counts a game on every call. Callers must make sure a given
// period reaches it at most once per identity; Dedupe and Rebuild do that
// for batch replays.
package aggregate

import (
	"math"
	"sort"

	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/scoring"
)

// Totals maps an identity key to its running season totals.
type Totals map[string]*model.SeasonTotals

const errNilTotals = "aggregate: ApplyPeriod on nil Totals"

// ApplyPeriod adds one period to totals[key], creating the entry if absent.
// Points are computed with the default weights when p.Points is nil.
// Non-finite stat values count as zero.
//
// Point sums are kept at full precision; only the averages are rounded to
// two decimals. totals must be non-nil (use make(Totals)); a nil map panics
// with errNilTotals.
func ApplyPeriod(totals Totals, key string, p model.PeriodPerformance) {
	if totals == nil {
		panic(errNilTotals)
	}
	t, ok := totals[key]
	if !ok {
		t = &model.SeasonTotals{IdentityKey: key}
		totals[key] = t
	}

	t.GamesCounted++

	stats := p.Stats
	src, dst := stats.Fields(), t.Stats.Fields()
	for i := range src {
		*dst[i] += finite(*src[i])
	}

	points := p.Points
	if points == nil {
		computed := scoring.Compute(p.Stats, scoring.DefaultWeights())
		points = &computed
	}
	for _, c := range model.Conventions() {
		cum := t.Points.Get(c) + finite(points.Get(c))
		t.Points.Set(c, cum)
		t.Averages.Set(c, scoring.Round2(cum/float64(t.GamesCounted)))
	}

	t.Periods = append(t.Periods, p.Period)
	if p.PlayerName != "" {
		t.PlayerName = p.PlayerName
	}
	if p.Position != "" {
		t.Position = p.Position
	}
	if p.Team != "" {
		t.Team = p.Team
	}
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// ByPeriod maps a period index to the performances of that period by identity key.
type ByPeriod map[int]map[string]model.PeriodPerformance

// Dedupe groups records by period and identity key. A later record for the
// same (period, key) replaces an earlier one.
func Dedupe(records []model.PeriodPerformance) ByPeriod {
	out := make(ByPeriod)
	for _, r := range records {
		week, ok := out[r.Period]
		if !ok {
			week = make(map[string]model.PeriodPerformance)
			out[r.Period] = week
		}
		week[r.IdentityKey] = r
	}
	return out
}

// Rebuild computes totals from scratch, applying each (period, key) exactly
// once in ascending period order and then key order.
func Rebuild(periods ByPeriod) Totals {
	totals := make(Totals)
	weeks := make([]int, 0, len(periods))
	for w := range periods {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	for _, w := range weeks {
		recs := periods[w]
		keys := make([]string, 0, len(recs))
		for k := range recs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ApplyPeriod(totals, k, recs[k])
		}
	}
	return totals
}

// Keys returns the identity keys of totals in sorted order.
func (t Totals) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
