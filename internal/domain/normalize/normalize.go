// Package normalize maps raw player names, team codes and position labels to
// canonical comparison forms. Every function is pure, total and idempotent.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/byline/internal/domain/model"
)

// suffixes are dropped from names unless they are the only token.
var suffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
}

// nicknames expands two-letter initials. Replacement happens on whole tokens only.
var nicknames = map[string]string{
	"dj": "d.j.",
	"cj": "c.j.",
	"aj": "a.j.",
	"tj": "t.j.",
	"jj": "j.j.",
	"bj": "b.j.",
	"rj": "r.j.",
	"pj": "p.j.",
}

// separators become spaces; dropped characters are removed outright.
var (
	separators = strings.NewReplacer("-", " ", "_", " ", "‐", " ", "–", " ")
	dropped    = strings.NewReplacer(".", "", "'", "", "’", "", "`", "", ",", "")
)

// Name returns the canonical comparison form of a player name.
func Name(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// Casers and transformers keep state, so each call gets its own.
	s := cases.Fold().String(raw)
	s = stripMarks(s)
	s = separators.Replace(s)
	s = dropped.Replace(s)

	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if _, ok := suffixes[tok]; ok && i > 0 {
			continue
		}
		if exp, ok := nicknames[tok]; ok {
			tok = exp
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return res
}

// Team returns the canonical team code. Free agent markers map to the empty
// string; unknown input is returned upper-cased.
func Team(raw string) string {
	s := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	if s == "" {
		return ""
	}
	if code, ok := teamAliases[s]; ok {
		return code
	}
	return s
}

// Position returns the canonical position code. Unknown input is returned upper-cased.
func Position(raw string) string {
	s := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	if s == "" {
		return ""
	}
	if code, ok := positionAliases[s]; ok {
		return code
	}
	return s
}

// IsFantasyPosition reports whether the code is one of the fantasy-relevant positions.
func IsFantasyPosition(code string) bool {
	_, ok := fantasyPositions[Position(code)]
	return ok
}

// Key derives the normalized key for an identity record.
func Key(r model.IdentityRecord) model.NormalizedKey {
	return model.NormalizedKey{
		Name:     Name(r.DisplayName),
		Team:     Team(r.TeamCode),
		Position: Position(r.PositionCode),
	}
}
