package similarity

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRatio(t *testing.T) {
	Convey("Ratio", t, func() {
		Convey("is 1 for equal strings", func() {
			So(Ratio("abc", "abc"), ShouldEqual, 1)
			So(Ratio("", ""), ShouldEqual, 1)
		})

		Convey("is 0 for fully different strings", func() {
			So(Ratio("abc", "xyz"), ShouldEqual, 0)
			So(Ratio("", "abc"), ShouldEqual, 0)
		})

		Convey("is symmetric", func() {
			So(Ratio("kitten", "sitting"), ShouldEqual, Ratio("sitting", "kitten"))
		})

		Convey("counts runes, not bytes", func() {
			So(Ratio("café", "cafe"), ShouldAlmostEqual, 0.75, 1e-9)
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Score", t, func() {
		Convey("returns 0 when either name is empty after normalization", func() {
			So(Score("", "Josh Allen"), ShouldEqual, 0)
			So(Score("Josh Allen", " . "), ShouldEqual, 0)
		})

		Convey("returns 1 for names equal after normalization", func() {
			So(Score("AJ Brown", "A.J. Brown"), ShouldEqual, 1)
			So(Score("Odell Beckham Jr.", "odell beckham"), ShouldEqual, 1)
		})

		Convey("boosts a shared surname", func() {
			// "cam ward" vs "cameron ward": distance 4 over 12 runes, plus 0.2.
			So(Score("Cam Ward", "Cameron Ward"), ShouldAlmostEqual, 1-4.0/12+0.2, 1e-9)
			So(Score("Cam Ward", "Cameron Ward"), ShouldBeGreaterThanOrEqualTo, 0.75)
		})

		Convey("boosts a shared given name", func() {
			base := Ratio("josh allen", "josh allan")
			So(Score("Josh Allen", "Josh Allan"), ShouldAlmostEqual, base+0.1, 1e-9)
		})

		Convey("clamps to 1", func() {
			s := Score("Josh Allen", "Josh  Allen Smith Allen")
			So(s, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("is symmetric", func() {
			So(Score("Cam Ward", "Cameron Ward"), ShouldEqual, Score("Cameron Ward", "Cam Ward"))
			So(Score("Gabe Davis", "Gabriel Davis"), ShouldEqual, Score("Gabriel Davis", "Gabe Davis"))
		})

		Convey("keeps unrelated names low", func() {
			So(Score("Patrick Mahomes", "Derrick Henry"), ShouldBeLessThan, 0.75)
		})

		Convey("Scorer delegates to Score", func() {
			So(Scorer{}.Score("Cam Ward", "Cameron Ward"), ShouldEqual, Score("Cam Ward", "Cameron Ward"))
		})
	})
}
