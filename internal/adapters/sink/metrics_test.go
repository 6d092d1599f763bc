package sink_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/tallymap/internal/adapters/sink"
	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/pkg/metrics"
)

// gaugeValue reads one labelled gauge from the metrics registry.
func gaugeValue(name, label, value string) (float64, bool) {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0, false
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" {
				return m.GetGauge().GetValue(), true
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetGauge().GetValue(), true
				}
			}
		}
	}
	return 0, false
}

func TestMetricsDisplay(t *testing.T) {
	Convey("Given a metrics display", t, func() {
		ctx := context.Background()
		d := sink.NewMetricsDisplay()

		Convey("When a cycle is published", func() {
			d.SetTotals(ctx, 226, 312)
			d.SetShares(ctx, 47.5, 52.5)
			d.ColorRegions(ctx, map[string]model.Category{
				"CA": model.CategoryDem, "OH": model.CategoryRep, "TX": model.CategoryRep,
			})
			at := time.Unix(1_730_851_200, 0)
			d.SetLastUpdate(ctx, at)

			Convey("Then the gauges reflect it", func() {
				v, ok := gaugeValue("tallymap_results_units", "party", "dem")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 226)

				v, _ = gaugeValue("tallymap_results_share_percent", "party", "rep")
				So(v, ShouldEqual, 52.5)

				v, _ = gaugeValue("tallymap_results_last_update_unix", "", "")
				So(v, ShouldEqual, 1_730_851_200)
			})
		})
	})
}
