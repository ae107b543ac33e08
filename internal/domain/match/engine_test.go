package match

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/byline/internal/domain/model"
)

type fixedScorer struct {
	score float64
	calls int
}

func (f *fixedScorer) Score(_, _ string) float64 {
	f.calls++
	return f.score
}

type tableScorer map[string]float64

func (t tableScorer) Score(a, b string) float64 {
	return t[a+"|"+b]
}

func rec(id, name, team, pos string) model.IdentityRecord {
	return model.IdentityRecord{SourceID: id, DisplayName: name, TeamCode: team, PositionCode: pos}
}

func TestResolveScenarios(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default engine", t, func() {
		e := New()

		Convey("When both sources list Josh Allen on BUF at QB", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Josh Allen", "BUF", "QB")},
				[]model.IdentityRecord{rec("c1", "Josh Allen", "BUF", "QB")},
			)

			Convey("Then an exact name+team+position link with confidence 1.0 is produced", func() {
				So(res.Links, ShouldResemble, []model.MatchLink{{
					PrimaryID: "p1", CandidateID: "c1", Confidence: 1.0,
					Strategy: model.StrategyExactNameTeamPosition,
				}})
				So(res.Unresolved, ShouldBeEmpty)
				So(res.PassID, ShouldNotBeEmpty)
			})
		})

		Convey("When names differ only in initial punctuation", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "AJ Brown", "PHI", "WR")},
				[]model.IdentityRecord{rec("c1", "A.J. Brown", "Philadelphia Eagles", "Wide Receiver")},
			)

			Convey("Then they match on name, team and position", func() {
				So(len(res.Links), ShouldEqual, 1)
				So(res.Links[0].Strategy, ShouldEqual, model.StrategyExactNameTeamPosition)
				So(res.Links[0].Confidence, ShouldEqual, 1.0)
			})
		})

		Convey("When only a fuzzy match with the same surname exists", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Cam Ward", "TEN", "QB")},
				[]model.IdentityRecord{rec("c1", "Cameron Ward", "TEN", "QB")},
			)

			Convey("Then the fuzzy strategy links them", func() {
				So(len(res.Links), ShouldEqual, 1)
				So(res.Links[0].Strategy, ShouldEqual, model.StrategyFuzzyNamePosition)
				So(res.Links[0].Confidence, ShouldBeGreaterThanOrEqualTo, 0.75)
				So(res.Links[0].Confidence, ShouldBeLessThan, 0.9)
			})
		})

		Convey("When the team is stale in one source", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Davante Adams", "LAR", "WR")},
				[]model.IdentityRecord{rec("c1", "Davante Adams", "NYJ", "WR")},
			)

			Convey("Then the team-agnostic strategy links them at 0.9", func() {
				So(len(res.Links), ShouldEqual, 1)
				So(res.Links[0].Strategy, ShouldEqual, model.StrategyExactNamePosition)
				So(res.Links[0].Confidence, ShouldEqual, 0.9)
			})
		})

		Convey("When one side has no team", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Free Agent Guy", "FA", "RB")},
				[]model.IdentityRecord{rec("c1", "Free Agent Guy", "", "RB")},
			)

			Convey("Then the unknown team never satisfies the team strategy", func() {
				So(len(res.Links), ShouldEqual, 1)
				So(res.Links[0].Strategy, ShouldEqual, model.StrategyExactNamePosition)
			})
		})

		Convey("When positions disagree", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Taysom Hill", "NO", "TE")},
				[]model.IdentityRecord{rec("c1", "Taysom Hill", "NO", "QB")},
			)

			Convey("Then no strategy links them", func() {
				So(res.Links, ShouldBeEmpty)
				So(res.Unresolved, ShouldResemble, []string{"p1"})
			})
		})

		Convey("When positions are unknown", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "Josh Allen", "BUF", "")},
				[]model.IdentityRecord{rec("c1", "Josh Allen", "BUF", "")},
			)

			Convey("Then no link is produced", func() {
				So(res.Links, ShouldBeEmpty)
			})
		})

		Convey("When names are empty", func() {
			res := e.Resolve(ctx,
				[]model.IdentityRecord{rec("p1", "", "BUF", "QB")},
				[]model.IdentityRecord{rec("c1", "", "BUF", "QB")},
			)

			Convey("Then the record is reported as unresolved", func() {
				So(res.Links, ShouldBeEmpty)
				So(res.Unresolved, ShouldResemble, []string{"p1"})
			})
		})

		Convey("When inputs are empty", func() {
			res := e.Resolve(ctx, nil, nil)

			Convey("Then an empty result is returned", func() {
				So(res.Links, ShouldNotBeNil)
				So(res.Links, ShouldBeEmpty)
				So(res.Unresolved, ShouldBeEmpty)
				So(res.MatchRate(), ShouldEqual, 0)
			})
		})
	})
}

func TestFuzzyThreshold(t *testing.T) {
	ctx := context.Background()
	primary := []model.IdentityRecord{rec("p1", "Alpha One", "BUF", "QB")}
	candidates := []model.IdentityRecord{rec("c1", "Beta Two", "MIA", "QB")}

	Convey("Given a scorer returning exactly the threshold", t, func() {
		e := New(WithScorer(&fixedScorer{score: 0.75}))
		res := e.Resolve(ctx, primary, candidates)

		Convey("Then the pair is accepted with the score as confidence", func() {
			So(len(res.Links), ShouldEqual, 1)
			So(res.Links[0].Confidence, ShouldEqual, 0.75)
			So(res.Links[0].Strategy, ShouldEqual, model.StrategyFuzzyNamePosition)
		})
	})

	Convey("Given a scorer returning just below the threshold", t, func() {
		e := New(WithScorer(&fixedScorer{score: 0.7499}))
		res := e.Resolve(ctx, primary, candidates)

		Convey("Then the pair is rejected", func() {
			So(res.Links, ShouldBeEmpty)
			So(res.Unresolved, ShouldResemble, []string{"p1"})
		})
	})

	Convey("Given a custom threshold", t, func() {
		e := New(WithScorer(&fixedScorer{score: 0.8}), WithFuzzyThreshold(0.85))
		So(e.Threshold(), ShouldEqual, 0.85)
		So(e.Resolve(ctx, primary, candidates).Links, ShouldBeEmpty)

		Convey("Then invalid thresholds are ignored", func() {
			So(New(WithFuzzyThreshold(0)).Threshold(), ShouldEqual, DefaultFuzzyThreshold)
			So(New(WithFuzzyThreshold(1.5)).Threshold(), ShouldEqual, DefaultFuzzyThreshold)
		})
	})

	Convey("Given candidates at a different position", t, func() {
		s := &fixedScorer{score: 1}
		e := New(WithScorer(s))
		res := e.Resolve(ctx, primary, []model.IdentityRecord{rec("c1", "Beta Two", "MIA", "RB")})

		Convey("Then the scorer is never consulted", func() {
			So(res.Links, ShouldBeEmpty)
			So(s.calls, ShouldEqual, 0)
		})
	})
}

func TestTieBreaking(t *testing.T) {
	ctx := context.Background()

	Convey("Given two identical candidates", t, func() {
		primary := []model.IdentityRecord{rec("p1", "Mike Williams", "NYJ", "WR")}
		candidates := []model.IdentityRecord{
			rec("c9", "Mike Williams", "NYJ", "WR"),
			rec("c2", "Mike Williams", "NYJ", "WR"),
		}

		Convey("Then the first in input order wins", func() {
			res := New().Resolve(ctx, primary, candidates)
			So(res.Links[0].CandidateID, ShouldEqual, "c9")
		})

		Convey("Then sorted iteration picks the lowest id", func() {
			res := New(WithSortedCandidates()).Resolve(ctx, primary, candidates)
			So(res.Links[0].CandidateID, ShouldEqual, "c2")

			Convey("And the caller's slice keeps its order", func() {
				So(candidates[0].SourceID, ShouldEqual, "c9")
			})
		})
	})

	Convey("Given equal fuzzy scores", t, func() {
		scorer := tableScorer{
			"Alpha|Bravo":   0.8,
			"Alpha|Charlie": 0.8,
		}
		res := New(WithScorer(scorer)).Resolve(ctx,
			[]model.IdentityRecord{rec("p1", "Alpha", "", "RB")},
			[]model.IdentityRecord{rec("c1", "Bravo", "", "RB"), rec("c2", "Charlie", "", "RB")},
		)

		Convey("Then the first candidate keeps the link", func() {
			So(res.Links[0].CandidateID, ShouldEqual, "c1")
		})
	})

	Convey("Given a better fuzzy candidate later in the pool", t, func() {
		scorer := tableScorer{
			"Alpha|Bravo":   0.8,
			"Alpha|Charlie": 0.95,
		}
		res := New(WithScorer(scorer)).Resolve(ctx,
			[]model.IdentityRecord{rec("p1", "Alpha", "", "RB")},
			[]model.IdentityRecord{rec("c1", "Bravo", "", "RB"), rec("c2", "Charlie", "", "RB")},
		)

		Convey("Then the best score wins", func() {
			So(res.Links[0].CandidateID, ShouldEqual, "c2")
			So(res.Links[0].Confidence, ShouldEqual, 0.95)
		})
	})
}

func TestStrategyOrder(t *testing.T) {
	ctx := context.Background()

	Convey("Given a candidate claimed by an earlier strategy", t, func() {
		primary := []model.IdentityRecord{
			rec("p1", "Josh Allen", "JAX", "QB"), // team-agnostic only
			rec("p2", "Josh Allen", "BUF", "QB"), // exact with team
		}
		candidates := []model.IdentityRecord{rec("c1", "Josh Allen", "BUF", "QB")}
		res := New().Resolve(ctx, primary, candidates)

		Convey("Then the stricter strategy keeps it and the other primary is unresolved", func() {
			So(len(res.Links), ShouldEqual, 1)
			So(res.Links[0].PrimaryID, ShouldEqual, "p2")
			So(res.Links[0].Strategy, ShouldEqual, model.StrategyExactNameTeamPosition)
			So(res.Unresolved, ShouldResemble, []string{"p1"})
		})
	})

	Convey("Given a mixed pool", t, func() {
		primary := []model.IdentityRecord{
			rec("p1", "Josh Allen", "BUF", "QB"),
			rec("p2", "Davante Adams", "LAR", "WR"),
			rec("p3", "Cam Ward", "TEN", "QB"),
			rec("p4", "Nobody Special", "SEA", "K"),
		}
		candidates := []model.IdentityRecord{
			rec("c3", "Cameron Ward", "TEN", "QB"),
			rec("c2", "Davante Adams", "NYJ", "WR"),
			rec("c1", "Josh Allen", "BUF", "QB"),
		}
		res := New().Resolve(ctx, primary, candidates)

		Convey("Then confidences are ordered by strategy strictness", func() {
			byP := res.ByPrimary()
			So(byP["p1"].Confidence, ShouldBeGreaterThanOrEqualTo, byP["p2"].Confidence)
			So(byP["p2"].Confidence, ShouldBeGreaterThanOrEqualTo, byP["p3"].Confidence)
			So(byP["p3"].Confidence, ShouldBeGreaterThanOrEqualTo, 0.75)
			So(res.ByCandidate()["c3"].PrimaryID, ShouldEqual, "p3")
		})

		Convey("Then counts and match rate are reported", func() {
			counts := res.CountByStrategy()
			So(counts[model.StrategyExactNameTeamPosition], ShouldEqual, 1)
			So(counts[model.StrategyExactNamePosition], ShouldEqual, 1)
			So(counts[model.StrategyFuzzyNamePosition], ShouldEqual, 1)
			So(res.MatchRate(), ShouldEqual, 75)
			So(res.Unresolved, ShouldResemble, []string{"p4"})
		})
	})
}

func TestAtMostOneLink(t *testing.T) {
	ctx := context.Background()
	names := []string{"Josh Allen", "Josh Allan", "Jon Allen", "Joshua Allen", "J Allen", "Allen Josh", "Mike Evans", "Mike Evan"}
	teams := []string{"BUF", "MIA", "", "FA"}
	positions := []string{"QB", "WR", "qb"}

	gen := func(r *rand.Rand, prefix string, n int) []model.IdentityRecord {
		out := make([]model.IdentityRecord, n)
		for i := range out {
			out[i] = rec(
				fmt.Sprintf("%s%d", prefix, r.Intn(n)), // ids may repeat
				names[r.Intn(len(names))],
				teams[r.Intn(len(teams))],
				positions[r.Intn(len(positions))],
			)
		}
		return out
	}

	Convey("Given random overlapping pools", t, func() {
		r := rand.New(rand.NewSource(7))
		for round := 0; round < 50; round++ {
			primary := gen(r, "p", 20)
			candidates := gen(r, "c", 20)
			res := New().Resolve(ctx, primary, candidates)

			seenP := map[string]int{}
			seenC := map[string]int{}
			for _, l := range res.Links {
				seenP[l.PrimaryID]++
				seenC[l.CandidateID]++
				So(l.Confidence, ShouldBeBetweenOrEqual, 0.75, 1)
			}
			for _, n := range seenP {
				So(n, ShouldEqual, 1)
			}
			for _, n := range seenC {
				So(n, ShouldEqual, 1)
			}
			for _, id := range res.Unresolved {
				_, linked := seenP[id]
				So(linked, ShouldBeFalse)
			}
		}
	})
}
