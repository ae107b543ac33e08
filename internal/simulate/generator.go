package simulate

import (
	"context"
	"strings"

	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/normalize"
	"github.com/okian/byline/internal/domain/scoring"
)

type mockPlayer struct {
	name, position, team string
	stats                model.StatLine
}

func passer(yds, tds, ints, rushYds, rushTDs float64) model.StatLine {
	return model.StatLine{
		Passing: model.Passing{Yards: yds, Touchdowns: tds, Interceptions: ints},
		Rushing: model.Rushing{Yards: rushYds, Touchdowns: rushTDs},
	}
}

func skill(rushYds, rushTDs, recYds, recTDs, recs, targets float64) model.StatLine {
	return model.StatLine{
		Rushing:   model.Rushing{Yards: rushYds, Touchdowns: rushTDs},
		Receiving: model.Receiving{Yards: recYds, Touchdowns: recTDs, Receptions: recs, Targets: targets},
	}
}

// roster is a fixed set of weekly stat lines repeated every week.
var roster = []mockPlayer{
	{"Josh Allen", "QB", "BUF", passer(285, 3, 1, 45, 1)},
	{"Christian McCaffrey", "RB", "SF", skill(120, 2, 55, 1, 6, 8)},
	{"Cooper Kupp", "WR", "LAR", skill(0, 0, 115, 2, 9, 12)},
	{"Travis Kelce", "TE", "KC", skill(0, 0, 85, 1, 7, 9)},
	{"Tyreek Hill", "WR", "MIA", skill(0, 0, 95, 1, 8, 11)},
	{"Derrick Henry", "RB", "BAL", skill(95, 1, 25, 0, 2, 3)},
	{"Patrick Mahomes", "QB", "KC", passer(320, 2, 1, 25, 0)},
	{"Davante Adams", "WR", "LV", skill(0, 0, 88, 0, 7, 10)},
}

// IdentityKey derives the identity key used for a mock player name.
func IdentityKey(name string) string {
	return strings.ReplaceAll(normalize.Name(name), " ", "-")
}

// expectation is what the service should report for one identity.
type expectation struct {
	name  string
	games int
	ppr   float64
}

// generate builds every period of the run and the totals it should produce.
func generate(ctx context.Context, cfg *Config) ([]model.PeriodPerformance, map[string]expectation, error) {
	scorer := scoring.NewInMemoryScorer()
	periods := make([]model.PeriodPerformance, 0, len(roster)*cfg.Weeks)
	expected := make(map[string]expectation, len(roster))

	for _, p := range roster {
		pts, err := scorer.Score(ctx, p.stats)
		if err != nil {
			return nil, nil, err
		}
		key := IdentityKey(p.name)
		expected[key] = expectation{
			name:  p.name,
			games: cfg.Weeks,
			ppr:   scoring.Round2(pts.PPR * float64(cfg.Weeks)),
		}
		for week := 1; week <= cfg.Weeks; week++ {
			periods = append(periods, model.PeriodPerformance{
				IdentityKey: key,
				PlayerName:  p.name,
				Position:    p.position,
				Team:        p.team,
				Season:      cfg.Season,
				Period:      week,
				Stats:       p.stats,
			})
		}
	}
	return periods, expected, nil
}
