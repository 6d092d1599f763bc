package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/tallymap/internal/adapters/sink"
	"github.com/okian/tallymap/internal/config"
	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/internal/sheetsim"
	"github.com/okian/tallymap/pkg/logger"
)

func testConfig(sourceURL string) *config.Config {
	cfg := config.New()
	cfg.Addr = "127.0.0.1:0"
	cfg.SourceURL = sourceURL
	cfg.RefreshIntervalMS = 60_000
	cfg.ConsoleSummary = true
	return cfg
}

func TestNewApplication(t *testing.T) {
	convey.Convey("Given an application wired against a simulated sheet", t, func() {
		ctx := context.Background()
		sim := sheetsim.New(sheetsim.WithSeed(11), sheetsim.WithClock(clockwork.NewFakeClock()))
		for i := 0; i < 30; i++ {
			sim.Advance(ctx)
		}
		sheet := httptest.NewServer(sim.Handler())
		defer sheet.Close()

		var console bytes.Buffer
		a := newApplication(ctx, testConfig(sheet.URL+"/pub?output=csv"), logger.Nop(), &console)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			a.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("Then the dashboard, docs and metrics are routed", func() {
			convey.So(get("/").Body.String(), convey.ShouldContainSubstring, `id="map"`)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the display gate starts closed", func() {
			convey.So(a.gate.State(), convey.ShouldEqual, sink.NotReady)
		})

		convey.Convey("When a refresh runs", func() {
			convey.So(a.svc.Refresh(ctx), convey.ShouldBeNil)

			convey.Convey("Then the API serves every state", func() {
				w := get("/api/results")
				var res types.Results
				convey.So(json.Unmarshal(w.Body.Bytes(), &res), convey.ShouldBeNil)
				convey.So(res.Regions, convey.ShouldHaveLength, 51)
				convey.So(res.Totals.DemUnits+res.Totals.RepUnits, convey.ShouldEqual, 538)
				convey.So(res.Status.OK, convey.ShouldBeTrue)
			})

			convey.Convey("Then a region is reachable by its map code", func() {
				w := get("/api/regions/NY")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"name":"New York"`)
			})

			convey.Convey("Then the console summary is printed", func() {
				convey.So(console.String(), convey.ShouldContainSubstring, "Harris")
				convey.So(console.String(), convey.ShouldContainSubstring, "Trump")
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running process", t, func() {
		sim := sheetsim.New(sheetsim.WithSeed(5))
		sheet := httptest.NewServer(sim.Handler())
		defer sheet.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- run(ctx, testConfig(sheet.URL+"/pub?output=csv"), logger.Nop(), &bytes.Buffer{})
		}()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestRunRejectsMissingSource(t *testing.T) {
	convey.Convey("Given a config without a source", t, func() {
		cfg := testConfig("")

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background(), cfg, logger.Nop(), &bytes.Buffer{})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "start refresh service")
		})
	})
}
