package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/tallymap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.DemLabel, convey.ShouldEqual, "Harris")
			convey.So(cfg.RepLabel, convey.ShouldEqual, "Trump")
			convey.So(cfg.ConsoleSummary, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the region table covers the states and DC", func() {
			convey.So(len(cfg.RegionCodes), convey.ShouldEqual, 51)
			convey.So(cfg.RegionCodes["District of Columbia"], convey.ShouldEqual, "DC")
			convey.So(cfg.RegionCodes["New York"], convey.ShouldEqual, "NY")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		cases := []struct {
			want   string
			mutate func(c *config.Config)
		}{
			{"addr must not be empty", func(c *config.Config) { c.Addr = "" }},
			{"source_url must not be empty", func(c *config.Config) { c.SourceURL = "" }},
			{"refresh_interval_ms", func(c *config.Config) { c.RefreshIntervalMS = 0 }},
			{"fetch_timeout_ms", func(c *config.Config) { c.FetchTimeoutMS = -1 }},
			{"labels must not be empty", func(c *config.Config) { c.RepLabel = "" }},
			{"must differ", func(c *config.Config) { c.RepLabel = c.DemLabel }},
			{"refresh_rate_per_min", func(c *config.Config) { c.RefreshRatePerMin = 0 }},
			{"max_ws_clients", func(c *config.Config) { c.MaxWSClients = -3 }},
			{"scheme must be http or https", func(c *config.Config) { c.SourceURL = "ftp://example.com/x.csv" }},
			{"source_url: parse", func(c *config.Config) { c.SourceURL = "http://[::1" }},
		}

		for _, tc := range cases {
			convey.Convey("When it is broken with "+tc.want, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
			})
		}
	})
}
