// Package similarity scores how alike two player names are.
//
// The score is a Levenshtein ratio over normalized names biased toward
// surname agreement: +0.2 when the last tokens match, +0.1 when the first
// tokens match, clamped to 1.0. It is a heuristic, not a metric.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/okian/byline/internal/domain/normalize"
)

const (
	lastTokenBoost  = 0.2
	firstTokenBoost = 0.1
)

// Scorer implements name scoring for the match engine.
type Scorer struct{}

// Score returns the similarity of a and b.
func (Scorer) Score(a, b string) float64 {
	return Score(a, b)
}

// Score normalizes both names and returns a value in [0,1].
func Score(a, b string) float64 {
	na, nb := normalize.Name(a), normalize.Name(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	score := Ratio(na, nb)

	ta, tb := strings.Fields(na), strings.Fields(nb)
	if ta[len(ta)-1] == tb[len(tb)-1] {
		score += lastTokenBoost
	}
	if ta[0] == tb[0] {
		score += firstTokenBoost
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Ratio is 1 - distance/maxLen over runes. It is symmetric and bounded in [0,1].
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
