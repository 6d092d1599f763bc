package sink_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/tallymap/internal/adapters/sink"
	"github.com/okian/tallymap/internal/adapters/sink/mocks"
	"github.com/okian/tallymap/internal/domain/model"
)

func TestGate(t *testing.T) {
	Convey("Given a gate around a display", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx := context.Background()
		next := mocks.NewMockDisplay(ctrl)
		gate := sink.NewGate(next)
		regions := map[string]model.Category{"OH": model.CategoryRep}

		Convey("Then it starts out not ready", func() {
			So(gate.State(), ShouldEqual, sink.NotReady)
			So(gate.State().String(), ShouldEqual, "not_ready")
		})

		Convey("When region colors arrive before the display is ready", func() {
			next.EXPECT().ColorRegions(gomock.Any(), gomock.Any()).Times(0)
			gate.ColorRegions(ctx, regions)

			Convey("Then they are dropped", func() {
				So(gate.State(), ShouldEqual, sink.NotReady)
			})
		})

		Convey("When numeric updates arrive before the display is ready", func() {
			at := time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)
			next.EXPECT().SetTotals(ctx, 18, 0)
			next.EXPECT().SetShares(ctx, 40.0, 60.0)
			next.EXPECT().SetLastUpdate(ctx, at)

			gate.SetTotals(ctx, 18, 0)
			gate.SetShares(ctx, 40.0, 60.0)
			gate.SetLastUpdate(ctx, at)

			Convey("Then they pass through", func() {
				So(gate.State(), ShouldEqual, sink.NotReady)
			})
		})

		Convey("When the display becomes ready", func() {
			calls := 0
			gate.OnReady(func(context.Context) { calls++ })

			first := gate.MarkReady(ctx)
			second := gate.MarkReady(ctx)

			Convey("Then the transition happens once and callbacks fire once", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(calls, ShouldEqual, 1)
				So(gate.State(), ShouldEqual, sink.Ready)
			})

			Convey("Then region colors pass through", func() {
				next.EXPECT().ColorRegions(ctx, regions)
				gate.ColorRegions(ctx, regions)
			})

			Convey("Then late registrations run immediately", func() {
				late := false
				gate.OnReady(func(context.Context) { late = true })
				So(late, ShouldBeTrue)
			})
		})
	})
}
