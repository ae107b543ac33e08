package scoring_test

import (
	"context"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/byline/internal/domain/model"
	scoring "github.com/okian/byline/internal/domain/scoring"
)

func qbLine() model.StatLine {
	var s model.StatLine
	s.Passing.Yards = 285
	s.Passing.Touchdowns = 2
	s.Passing.Interceptions = 1
	s.Rushing.Yards = 45
	s.Rushing.Touchdowns = 1
	return s
}

func wrLine() model.StatLine {
	var s model.StatLine
	s.Receiving.Receptions = 6
	s.Receiving.Yards = 85
	s.Receiving.Touchdowns = 1
	return s
}

func TestCompute(t *testing.T) {
	Convey("Given default weights", t, func() {
		w := scoring.DefaultWeights()

		Convey("When scoring a quarterback line", func() {
			p := scoring.Compute(qbLine(), w)

			Convey("Then all conventions agree without receptions", func() {
				// 285*0.04 + 2*4 - 2 + 45*0.1 + 6 = 27.9
				So(p.Standard, ShouldEqual, 27.9)
				So(p.HalfPPR, ShouldEqual, 27.9)
				So(p.PPR, ShouldEqual, 27.9)
			})
		})

		Convey("When scoring a receiver line", func() {
			p := scoring.Compute(wrLine(), w)

			Convey("Then receptions add per convention", func() {
				// 85*0.1 + 6 = 14.5
				So(p.Standard, ShouldEqual, 14.5)
				So(p.HalfPPR, ShouldEqual, 17.5)
				So(p.PPR, ShouldEqual, 20.5)
			})
		})

		Convey("When the line holds non-finite values", func() {
			s := wrLine()
			s.Rushing.Yards = math.NaN()
			s.Passing.Yards = math.Inf(1)

			Convey("Then they count as zero", func() {
				So(scoring.Compute(s, w), ShouldResemble, scoring.Compute(wrLine(), w))
			})
		})

		Convey("When the line is empty", func() {
			So(scoring.Compute(model.StatLine{}, w), ShouldResemble, model.Points{})
		})

		Convey("When fumbles and two point conversions occur", func() {
			var s model.StatLine
			s.Misc.FumblesLost = 1
			s.Misc.TwoPointConversions = 2
			So(scoring.Compute(s, w).Standard, ShouldEqual, 2)
		})
	})
}

func TestInMemoryScorer_Score(t *testing.T) {
	Convey("Given a new in-memory scorer", t, func() {
		scorer := scoring.NewInMemoryScorer()

		Convey("When scoring a stat line", func() {
			p, err := scorer.Score(context.Background(), wrLine())

			Convey("Then it matches Compute with default weights", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, scoring.Compute(wrLine(), scoring.DefaultWeights()))
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := scorer.Score(ctx, wrLine())

			Convey("Then it returns an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "context cancelled")
			})
		})
	})

	Convey("Given weights overridden from config", t, func() {
		scorer := scoring.NewInMemoryScorer(scoring.WithWeightsFromConfig(map[string]float64{
			scoring.WeightPassTD: 6,
			scoring.WeightPPR:    1.5,
			"unknown":            99,
			scoring.WeightRecTD:  math.NaN(),
		}))

		Convey("Then only known finite weights change", func() {
			w := scorer.Weights()
			So(w.PassTD, ShouldEqual, 6)
			So(w.PPRBonus, ShouldEqual, 1.5)
			So(w.RecTD, ShouldEqual, 6)
			So(w.PassYards, ShouldEqual, 0.04)
		})

		Convey("Then points use the overrides", func() {
			p, err := scorer.Score(context.Background(), wrLine())
			So(err, ShouldBeNil)
			So(p.PPR, ShouldEqual, 23.5)
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Round2 keeps two decimals", t, func() {
		So(scoring.Round2(1.234), ShouldEqual, 1.23)
		So(scoring.Round2(1.236), ShouldEqual, 1.24)
		So(scoring.Round2(-1.5), ShouldEqual, -1.5)
		So(scoring.Round2(10.0/3), ShouldEqual, 3.33)
	})
}
