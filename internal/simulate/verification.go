package simulate

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const pointsTolerance = 0.01

// verify compares observed totals against the expectations and returns the
// number of identities that matched.
func verify(expected map[string]expectation, observed []totalsEntry) (int, error) {
	byKey := make(map[string]totalsEntry, len(observed))
	for _, t := range observed {
		byKey[t.IdentityKey] = t
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	matched := 0
	for _, k := range keys {
		want := expected[k]
		got, ok := byKey[k]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: missing", k))
		case got.GamesCounted != want.games:
			problems = append(problems, fmt.Sprintf("%s: games %d, want %d", k, got.GamesCounted, want.games))
		case math.Abs(got.Points.PPR-want.ppr) > pointsTolerance:
			problems = append(problems, fmt.Sprintf("%s: ppr %.2f, want %.2f", k, got.Points.PPR, want.ppr))
		default:
			matched++
		}
	}
	if len(problems) > 0 {
		return matched, fmt.Errorf("%w: %s", ErrMismatch, strings.Join(problems, "; "))
	}
	return matched, nil
}

// settled reports whether every expected identity has all its games counted.
func settled(expected map[string]expectation, observed []totalsEntry) bool {
	games := make(map[string]int, len(observed))
	for _, t := range observed {
		games[t.IdentityKey] = t.GamesCounted
	}
	for k, want := range expected {
		if games[k] < want.games {
			return false
		}
	}
	return true
}
