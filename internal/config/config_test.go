package config_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/okian/byline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.FuzzyThreshold, convey.ShouldEqual, 0.75)
			convey.So(cfg.ADPPrimaryFormat, convey.ShouldEqual, "ppr_12team")
			convey.So(cfg.ADPLeagueSizes, convey.ShouldResemble, []int{8, 10, 12, 14})
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})

		convey.Convey("Then durations and dates are derived", func() {
			convey.So(cfg.SourceTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.ADPRequestInterval(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.SeasonStartTime(), convey.ShouldEqual, time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC))
		})
	})
}
