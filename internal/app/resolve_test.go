package service_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/byline/internal/app"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
)

func TestResolveKeys(t *testing.T) {
	Convey("Given a directory and a week of performances", t, func() {
		players := []model.Player{
			{PlayerID: "4984", FullName: "Josh Allen", Position: "QB", Team: "BUF"},
			{PlayerID: "9509", FullName: "Bijan Robinson", Position: "RB", Team: "ATL"},
		}
		perfs := []model.PeriodPerformance{
			{PlayerName: "Josh Allen", Position: "QB"},
			{IdentityKey: "upstream-7", PlayerName: "Bijan Robinson Jr.", Position: "RB", Team: "ATL"},
			{IdentityKey: "upstream-8", PlayerName: "Someone Else", Position: "K"},
			{PlayerName: "Unkeyed Player", Position: "TE"},
			{Position: "WR"},
		}

		Convey("When resolving keys", func() {
			out, res := service.ResolveKeys(context.Background(), match.New(), players, perfs)

			Convey("Then linked records take the directory id and fill gaps", func() {
				So(len(out), ShouldEqual, 4)
				So(out[0].IdentityKey, ShouldEqual, "4984")
				So(out[0].Team, ShouldEqual, "BUF")
				So(out[1].IdentityKey, ShouldEqual, "9509")
				So(out[1].PlayerName, ShouldEqual, "Bijan Robinson Jr.")
			})

			Convey("Then unlinked records keep their key or fall back to the name", func() {
				So(out[2].IdentityKey, ShouldEqual, "upstream-8")
				So(out[3].IdentityKey, ShouldEqual, "unkeyed player")
				So(res.Unresolved, ShouldContain, "Someone Else")
				So(len(res.Links), ShouldEqual, 2)
			})

			Convey("Then the inputs are not modified", func() {
				So(perfs[0].IdentityKey, ShouldEqual, "")
				So(perfs[0].Team, ShouldEqual, "")
			})
		})
	})
}
