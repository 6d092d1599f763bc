// Package types contains the read shapes returned by the HTTP API.
package types

import "time"

// Region is the detail view of one region, including the popup text shown
// when a region is clicked on the dashboard.
type Region struct {
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Dem      int    `json:"dem"`
	Rep      int    `json:"rep"`
	Units    int    `json:"units"`
	Winner   string `json:"winner"`
	Category string `json:"category"`
	Popup    string `json:"popup"`
}

// Totals mirrors model.Totals for JSON output.
type Totals struct {
	DemUnits    int     `json:"dem_units"`
	RepUnits    int     `json:"rep_units"`
	DemRaw      int     `json:"dem_raw"`
	RepRaw      int     `json:"rep_raw"`
	DemSharePct float64 `json:"dem_share_pct"`
	RepSharePct float64 `json:"rep_share_pct"`
}

// Status reports the outcome of the most recent refresh attempts.
type Status struct {
	OK          bool       `json:"ok"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
	Cycles      int        `json:"cycles"`
	Failures    int        `json:"failures"`
}

// Results is the full snapshot returned by GET /api/results.
type Results struct {
	Revision  string     `json:"revision"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DemLabel  string     `json:"dem_label"`
	RepLabel  string     `json:"rep_label"`
	Totals    Totals     `json:"totals"`
	Regions   []Region   `json:"regions"`
	Status    Status     `json:"status"`
}
