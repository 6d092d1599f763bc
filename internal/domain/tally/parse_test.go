package tally

import (
	"testing"

	"github.com/okian/tallymap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const exampleBody = `State,Dem,Rep,Units,Winner
Ohioville,100000,150000,18,Party B
Lakeland,,,0,
Sandbar,"50,000",40000,9,Party A
`

func TestParse_ExampleBody(t *testing.T) {
	Convey("Given the reference sheet body", t, func() {
		res := Parse(exampleBody)

		Convey("Then zero-unit rows are excluded", func() {
			So(res.Regions, ShouldNotContainKey, "Lakeland")
			So(len(res.Regions), ShouldEqual, 2)
		})

		Convey("Then a well-formed row is parsed exactly", func() {
			So(res.Regions["Ohioville"], ShouldResemble, model.RegionTally{
				Dem: 100000, Rep: 150000, Units: 18, Winner: "Party B",
			})
		})

		Convey("Then the quoted thousands value is split naively", func() {
			// columns: Sandbar | "50 | 000" | 40000 | 9 | Party A
			So(res.Regions["Sandbar"], ShouldResemble, model.RegionTally{
				Dem: 0, Rep: 0, Units: 40000, Winner: "9",
			})
		})

		Convey("Then row statistics add up", func() {
			So(res.Rows, ShouldEqual, 3)
			So(res.Accepted, ShouldEqual, 2)
			So(res.SkippedInvalid, ShouldEqual, 1)
			So(res.SkippedShort, ShouldEqual, 0)
		})

		Convey("And aggregating yields only the recognized winner's units", func() {
			totals := Aggregate(res.Regions, model.Labels{Dem: "Party A", Rep: "Party B"})
			So(totals.RepUnits, ShouldEqual, 18)
			So(totals.DemUnits, ShouldEqual, 0)
			So(totals.DemRaw, ShouldEqual, 100000)
			So(totals.RepRaw, ShouldEqual, 150000)
			So(totals.DemSharePct, ShouldAlmostEqual, 40.0, 1e-9)
			So(totals.RepSharePct, ShouldAlmostEqual, 60.0, 1e-9)
		})
	})
}

func TestParse_RowRules(t *testing.T) {
	Convey("Given bodies exercising the row rules", t, func() {
		Convey("When the body is empty or blank", func() {
			So(Parse("").Regions, ShouldBeEmpty)
			So(Parse("\n  \n\t\n").Regions, ShouldBeEmpty)
		})

		Convey("When only a well-formed header is present", func() {
			res := Parse("Ohio,1,2,18,Harris\n")

			Convey("Then the header is never read as data", func() {
				So(res.Regions, ShouldBeEmpty)
				So(res.Rows, ShouldEqual, 0)
			})
		})

		Convey("When blank lines precede the header", func() {
			res := Parse("\n\n  \nOhio,1,2,18,Harris\nUtah,3,4,6,Trump\n")

			Convey("Then the first non-blank line is still the header", func() {
				So(res.Regions, ShouldNotContainKey, "Ohio")
				So(res.Regions, ShouldContainKey, "Utah")
			})
		})

		Convey("When a row has fewer than five columns", func() {
			res := Parse("h\nOhio,1,2,18\nUtah,3,4,6,Trump\n")

			Convey("Then it is silently dropped", func() {
				So(res.Regions, ShouldNotContainKey, "Ohio")
				So(res.SkippedShort, ShouldEqual, 1)
				So(len(res.Regions), ShouldEqual, 1)
			})
		})

		Convey("When a row has extra columns", func() {
			res := Parse("h\nOhio,1,2,18,Harris,note,more\n")

			Convey("Then the extras are ignored", func() {
				So(res.Regions["Ohio"], ShouldResemble, model.RegionTally{Dem: 1, Rep: 2, Units: 18, Winner: "Harris"})
			})
		})

		Convey("When the name is empty after cleaning", func() {
			res := Parse("h\n\"\",1,2,18,Harris\n  ,1,2,3,Trump\n")

			Convey("Then the rows are dropped", func() {
				So(res.Regions, ShouldBeEmpty)
				So(res.SkippedInvalid, ShouldEqual, 2)
			})
		})

		Convey("When numeric cells are empty or non-numeric", func() {
			res := Parse("h\nOhio,abc,,18,Harris\n")

			Convey("Then they default to zero without dropping the row", func() {
				So(res.Regions["Ohio"], ShouldResemble, model.RegionTally{Dem: 0, Rep: 0, Units: 18, Winner: "Harris"})
			})
		})

		Convey("When units are non-numeric", func() {
			res := Parse("h\nOhio,1,2,n/a,Harris\n")

			Convey("Then units default to zero and the row is excluded", func() {
				So(res.Regions, ShouldBeEmpty)
			})
		})

		Convey("When a region appears twice", func() {
			res := Parse("h\nOhio,1,2,18,Harris\nOhio,5,6,18,Trump\n")

			Convey("Then the last row wins", func() {
				So(res.Regions["Ohio"].Winner, ShouldEqual, "Trump")
				So(res.Regions["Ohio"].Dem, ShouldEqual, 5)
				So(res.Accepted, ShouldEqual, 2)
			})
		})

		Convey("When lines end with CRLF", func() {
			res := Parse("State,Dem,Rep,EV,Winner\r\nOhio,1,2,18,Harris\r\n")

			Convey("Then the carriage return is trimmed from the last column", func() {
				So(res.Regions["Ohio"].Winner, ShouldEqual, "Harris")
			})
		})

		Convey("When names and winners are quoted", func() {
			res := Parse("h\n \"New York\" ,1,2,28,'Harris'\n")

			Convey("Then one quote is stripped on each side", func() {
				So(res.Regions, ShouldContainKey, "New York")
				So(res.Regions["New York"].Winner, ShouldEqual, "Harris")
			})
		})

		Convey("When region names differ only by case", func() {
			res := Parse("h\nohio,1,2,18,Harris\nOhio,1,2,18,Trump\n")

			Convey("Then they are distinct keys", func() {
				So(len(res.Regions), ShouldEqual, 2)
			})
		})
	})
}

func TestCleanField(t *testing.T) {
	Convey("Given cell values", t, func() {
		cases := map[string]string{
			"Ohio":         "Ohio",
			"  Ohio  ":     "Ohio",
			`"Ohio"`:       "Ohio",
			`'Ohio'`:       "Ohio",
			`""Ohio""`:     `"Ohio"`,
			`"Ohio`:        "Ohio",
			`Ohio'`:        "Ohio",
			`"`:            "",
			" \" Ohio \" ": " Ohio ",
			"":             "",
		}
		for in, want := range cases {
			So(cleanField(in), ShouldEqual, want)
		}
	})
}

func TestParseCount(t *testing.T) {
	Convey("Given numeric cells", t, func() {
		cases := map[string]int{
			"100000":      100000,
			"1,234,567":   1234567,
			"  42 ":       42,
			"":            countFallback,
			"   ":         countFallback,
			"abc":         countFallback,
			"12 votes":    12,
			"3.9":         3,
			"-7":          -7,
			"+7":          7,
			"+":           countFallback,
			`"50`:         countFallback,
			`000"`:        0,
			"99999999999999999999999": countFallback,
		}
		for in, want := range cases {
			So(parseCount(in), ShouldEqual, want)
		}
	})

	Convey("Given negative ballots in a row", t, func() {
		res := Parse("h\nOhio,-5,-6,18,Harris\n")

		Convey("Then ballots clamp to zero", func() {
			So(res.Regions["Ohio"].Dem, ShouldEqual, 0)
			So(res.Regions["Ohio"].Rep, ShouldEqual, 0)
		})
	})
}
