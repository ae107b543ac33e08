package sleeper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/byline/pkg/logger"
)

const directory = `{
  "4984": {"first_name":"Josh","last_name":"Allen","full_name":"Josh Allen","position":"QB","team":"BUF",
           "number":17,"age":29,"height":"77","weight":"237","college":"Wyoming","years_exp":7,
           "status":null,"injury_status":null,"fantasy_positions":["QB"],"espn_id":3918298,"yahoo_id":"30977"},
  "OL1":  {"full_name":"Big Tackle","position":"OT","fantasy_positions":["OL"]},
  "K9":   {"first_name":" Harrison ","last_name":"Butker","position":null,"fantasy_positions":[null,"K"],"status":"Inactive"},
  "X1":   {"position":"WR"},
  "bad":  "not an object",
  "DEN":  {"last_name":"Broncos","position":"DEF","team":"DEN"}
}`

func TestClean(t *testing.T) {
	Convey("Given a raw directory", t, func() {
		var raw map[string]json.RawMessage
		So(json.Unmarshal([]byte(directory), &raw), ShouldBeNil)
		now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

		players := Clean(raw, now)

		Convey("Then only named fantasy-relevant players remain, ordered by id", func() {
			ids := make([]string, len(players))
			for i, p := range players {
				ids[i] = p.PlayerID
			}
			So(ids, ShouldResemble, []string{"4984", "DEN", "K9"})
		})

		Convey("Then fields are cleaned", func() {
			allen := players[0]
			So(allen.FullName, ShouldEqual, "Josh Allen")
			So(allen.Number, ShouldEqual, "17")
			So(allen.Age, ShouldEqual, 29)
			So(allen.Status, ShouldEqual, "Active")
			So(allen.ESPNID, ShouldEqual, "3918298")
			So(allen.LastUpdated, ShouldEqual, now)

			k := players[2]
			So(k.FullName, ShouldEqual, "Harrison Butker")
			So(k.FantasyPositions, ShouldResemble, []string{"K"})
			So(k.Status, ShouldEqual, "Inactive")

			def := players[1]
			So(def.FullName, ShouldEqual, "Broncos")
		})
	})
}

func TestFetchPlayers(t *testing.T) {
	Convey("Given a directory server", t, func() {
		_ = logger.Init()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/players/nfl" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(directory))
		}))
		defer srv.Close()

		Convey("When fetching players", func() {
			players, err := New(srv.URL).FetchPlayers(context.Background())

			Convey("Then the cleaned directory is returned", func() {
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 3)
			})
		})

		Convey("When the base URL is wrong", func() {
			_, err := New(srv.URL + "/v0").FetchPlayers(context.Background())

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
