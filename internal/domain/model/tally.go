// Package model contains domain models passed between layers.
package model

import "time"

// RegionTally is one parsed sheet row, keyed by region name in a Regions map.
type RegionTally struct {
	Dem    int    // ballots for the first tracked party
	Rep    int    // ballots for the second tracked party
	Units  int    // weight awarded to the region winner, never 0 in a Regions map
	Winner string // declared winner label; unrecognized or empty means undecided
}

// Regions maps region name to its tally. A new map is built on every
// successful fetch; it is never merged into a previous one.
type Regions map[string]RegionTally

// Totals are derived from Regions and recomputed on every refresh.
type Totals struct {
	DemUnits    int
	RepUnits    int
	DemRaw      int
	RepRaw      int
	DemSharePct float64
	RepSharePct float64
}

// Category is the display classification of a region.
type Category string

const (
	CategoryDem       Category = "dem"
	CategoryRep       Category = "rep"
	CategoryUndecided Category = "undecided"
)

// Labels are the two winner labels recognized in the sheet.
type Labels struct {
	Dem string
	Rep string
}

// Classify returns the category a winner label resolves to.
// Matching is exact and case-sensitive.
func (l Labels) Classify(winner string) Category {
	switch {
	case winner == "":
		return CategoryUndecided
	case winner == l.Dem:
		return CategoryDem
	case winner == l.Rep:
		return CategoryRep
	default:
		return CategoryUndecided
	}
}

// Snapshot is the state a refresh cycle publishes. Regions and Totals are
// replaced together after a successful parse; a failed cycle only touches
// the error fields.
type Snapshot struct {
	Regions     Regions
	Totals      Totals
	Revision    string
	UpdatedAt   time.Time
	LastError   string
	LastErrorAt time.Time
	Cycles      int
	Failures    int
}
