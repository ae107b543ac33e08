package normalize

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/byline/internal/domain/model"
)

func TestName(t *testing.T) {
	Convey("Name", t, func() {
		Convey("lower-cases and collapses whitespace", func() {
			So(Name("  Josh   ALLEN "), ShouldEqual, "josh allen")
		})

		Convey("strips suffixes after the first token", func() {
			So(Name("Odell Beckham Jr."), ShouldEqual, "odell beckham")
			So(Name("Michael Pittman Jr"), ShouldEqual, "michael pittman")
			So(Name("Marvin Harrison, Jr."), ShouldEqual, "marvin harrison")
			So(Name("Kenneth Walker III"), ShouldEqual, "kenneth walker")
			So(Name("Jr Smith"), ShouldEqual, "jr smith")
		})

		Convey("removes periods and apostrophes", func() {
			So(Name("Ja'Marr Chase"), ShouldEqual, "jamarr chase")
			So(Name("D’Andre Swift"), ShouldEqual, "dandre swift")
			So(Name("T. Hill"), ShouldEqual, "t hill")
		})

		Convey("turns hyphens into spaces", func() {
			So(Name("Amon-Ra St. Brown"), ShouldEqual, "amon ra st brown")
			So(Name("Jaxon Smith-Njigba"), ShouldEqual, "jaxon smith njigba")
		})

		Convey("expands initial nicknames on whole tokens", func() {
			So(Name("AJ Brown"), ShouldEqual, "a.j. brown")
			So(Name("A.J. Brown"), ShouldEqual, "a.j. brown")
			So(Name("DJ Moore"), ShouldEqual, "d.j. moore")
			So(Name("T.J. Hockenson"), ShouldEqual, "t.j. hockenson")
		})

		Convey("does not expand letter pairs inside other tokens", func() {
			So(Name("Adjoa Jones"), ShouldEqual, "adjoa jones")
			So(Name("Ajayi Smith"), ShouldEqual, "ajayi smith")
		})

		Convey("folds diacritics", func() {
			So(Name("Déjà Vü"), ShouldEqual, "deja vu")
		})

		Convey("returns empty for blank input", func() {
			So(Name(""), ShouldEqual, "")
			So(Name("   "), ShouldEqual, "")
			So(Name("..."), ShouldEqual, "")
		})

		Convey("is idempotent", func() {
			inputs := []string{
				"AJ Brown", "A.J. Brown", "Odell Beckham Jr.", "Amon-Ra St. Brown",
				"Ja'Marr Chase", "Jr Smith", "  Cam   WARD ", "Déjà Vü", "dj", "",
				"Kenneth Walker III", "Marvin Harrison, Jr.", "CJ Stroud",
			}
			for _, in := range inputs {
				once := Name(in)
				So(Name(once), ShouldEqual, once)
			}
		})
	})
}

func TestTeam(t *testing.T) {
	Convey("Team", t, func() {
		Convey("maps historical and alternate codes", func() {
			So(Team("OAK"), ShouldEqual, "LV")
			So(Team("LVR"), ShouldEqual, "LV")
			So(Team("RAI"), ShouldEqual, "LV")
			So(Team("SD"), ShouldEqual, "LAC")
			So(Team("SDG"), ShouldEqual, "LAC")
			So(Team("STL"), ShouldEqual, "LAR")
			So(Team("LA"), ShouldEqual, "LAR")
			So(Team("WSH"), ShouldEqual, "WAS")
			So(Team("jac"), ShouldEqual, "JAX")
		})

		Convey("maps full names", func() {
			So(Team("Philadelphia Eagles"), ShouldEqual, "PHI")
			So(Team(" green   bay "), ShouldEqual, "GB")
		})

		Convey("treats free agent markers as unknown", func() {
			So(Team("FA"), ShouldEqual, "")
			So(Team(""), ShouldEqual, "")
		})

		Convey("upper-cases unknown codes", func() {
			So(Team("xyz"), ShouldEqual, "XYZ")
		})

		Convey("is idempotent", func() {
			for _, in := range []string{"oak", "Philadelphia", "FA", "xyz", "KC", "  sd "} {
				once := Team(in)
				So(Team(once), ShouldEqual, once)
			}
		})
	})
}

func TestPosition(t *testing.T) {
	Convey("Position", t, func() {
		Convey("maps aliases to fantasy codes", func() {
			So(Position("HB"), ShouldEqual, "RB")
			So(Position("fullback"), ShouldEqual, "RB")
			So(Position("Wide Receiver"), ShouldEqual, "WR")
			So(Position("PK"), ShouldEqual, "K")
			So(Position("D/ST"), ShouldEqual, "DEF")
			So(Position("dst"), ShouldEqual, "DEF")
		})

		Convey("upper-cases unknown labels", func() {
			So(Position("ol"), ShouldEqual, "OL")
			So(Position(""), ShouldEqual, "")
		})

		Convey("is idempotent", func() {
			for _, in := range []string{"hb", "ol", "Tight End", "", "kicker"} {
				once := Position(in)
				So(Position(once), ShouldEqual, once)
			}
		})

		Convey("recognizes fantasy positions", func() {
			So(IsFantasyPosition("qb"), ShouldBeTrue)
			So(IsFantasyPosition("D/ST"), ShouldBeTrue)
			So(IsFantasyPosition("OL"), ShouldBeFalse)
			So(IsFantasyPosition(""), ShouldBeFalse)
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Key normalizes every field", t, func() {
		k := Key(model.IdentityRecord{SourceID: "1", DisplayName: "AJ Brown", TeamCode: "phi", PositionCode: "wide receiver"})
		So(k, ShouldResemble, model.NormalizedKey{Name: "a.j. brown", Team: "PHI", Position: "WR"})
	})
}
