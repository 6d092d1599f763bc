package tally

import (
	"math"
	"testing"

	"github.com/okian/tallymap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var testLabels = model.Labels{Dem: "Harris", Rep: "Trump"}

func TestAggregate(t *testing.T) {
	Convey("Given a mapping with decided and undecided regions", t, func() {
		regions := model.Regions{
			"Ohio":         {Dem: 100, Rep: 300, Units: 17, Winner: "Trump"},
			"California":   {Dem: 900, Rep: 100, Units: 54, Winner: "Harris"},
			"Pennsylvania": {Dem: 500, Rep: 500, Units: 19, Winner: ""},
			"Georgia":      {Dem: 10, Rep: 20, Units: 16, Winner: "trump"},
		}

		totals := Aggregate(regions, testLabels)

		Convey("Then units count only exact winner matches", func() {
			So(totals.DemUnits, ShouldEqual, 54)
			So(totals.RepUnits, ShouldEqual, 17)
		})

		Convey("Then raw ballots include every region", func() {
			So(totals.DemRaw, ShouldEqual, 1510)
			So(totals.RepRaw, ShouldEqual, 920)
		})

		Convey("Then shares are percentages of the raw sum", func() {
			So(totals.DemSharePct+totals.RepSharePct, ShouldAlmostEqual, 100, 1e-9)
			So(totals.DemSharePct, ShouldAlmostEqual, 100*1510.0/2430.0, 1e-9)
		})

		Convey("Then aggregating again yields identical totals", func() {
			So(Aggregate(regions, testLabels), ShouldResemble, totals)
		})
	})

	Convey("Given an empty mapping", t, func() {
		totals := Aggregate(model.Regions{}, testLabels)

		Convey("Then every total is zero and shares are not NaN", func() {
			So(totals, ShouldResemble, model.Totals{})
			So(math.IsNaN(totals.DemSharePct), ShouldBeFalse)
		})
	})

	Convey("Given regions with units but no ballots", t, func() {
		totals := Aggregate(model.Regions{"Ohio": {Units: 17, Winner: "Harris"}}, testLabels)

		Convey("Then shares are zero and units still count", func() {
			So(totals.DemSharePct, ShouldEqual, 0)
			So(totals.RepSharePct, ShouldEqual, 0)
			So(totals.DemUnits, ShouldEqual, 17)
		})
	})
}

func TestShares(t *testing.T) {
	Convey("Given raw sums", t, func() {
		d, r := Shares(0, 0)
		So(d, ShouldEqual, 0)
		So(r, ShouldEqual, 0)

		d, r = Shares(1, 3)
		So(d, ShouldEqual, 25)
		So(r, ShouldEqual, 75)

		d, r = Shares(5, 0)
		So(d, ShouldEqual, 100)
		So(r, ShouldEqual, 0)
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given regions and a normalization table", t, func() {
		regions := model.Regions{
			"Ohio":     {Units: 17, Winner: "Trump"},
			"Vermont":  {Units: 3, Winner: "Harris"},
			"Guam":     {Units: 1, Winner: "Harris"},
			"Michigan": {Units: 15, Winner: "TBD"},
		}
		codes := map[string]string{"Ohio": "OH", "Vermont": "VT", "Michigan": "MI"}

		Convey("When categorizing with the table", func() {
			got := Categorize(regions, testLabels, codes)

			Convey("Then keys are normalized and unknown regions are left out", func() {
				So(got, ShouldResemble, map[string]model.Category{
					"OH": model.CategoryRep,
					"VT": model.CategoryDem,
					"MI": model.CategoryUndecided,
				})
			})
		})

		Convey("When categorizing without a table", func() {
			got := Categorize(regions, testLabels, nil)

			Convey("Then region names are used as keys", func() {
				So(len(got), ShouldEqual, 4)
				So(got["Guam"], ShouldEqual, model.CategoryDem)
			})
		})

		Convey("When counting categories", func() {
			counts := CountCategories(regions, testLabels)
			So(counts[model.CategoryDem], ShouldEqual, 2)
			So(counts[model.CategoryRep], ShouldEqual, 1)
			So(counts[model.CategoryUndecided], ShouldEqual, 1)
		})
	})
}

func TestLabelsClassify(t *testing.T) {
	Convey("Given configured labels", t, func() {
		So(testLabels.Classify("Harris"), ShouldEqual, model.CategoryDem)
		So(testLabels.Classify("Trump"), ShouldEqual, model.CategoryRep)
		So(testLabels.Classify("harris"), ShouldEqual, model.CategoryUndecided)
		So(testLabels.Classify(""), ShouldEqual, model.CategoryUndecided)
		So(model.Labels{}.Classify(""), ShouldEqual, model.CategoryUndecided)
	})
}
