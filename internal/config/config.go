// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and TALLYMAP_* env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceURL is the published-sheet CSV endpoint polled on every tick.
	SourceURL string `koanf:"source_url"`

	// RefreshIntervalMS is the poll period in milliseconds.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	// FetchTimeoutMS bounds a single fetch. Zero means no timeout.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// DemLabel and RepLabel are the winner labels counted toward each party.
	DemLabel string `koanf:"dem_label"`
	RepLabel string `koanf:"rep_label"`

	// RegionCodes maps sheet region names to map keys. Regions missing from a
	// non-empty table are not colored; an empty table colors by region name.
	RegionCodes map[string]string `koanf:"region_codes"`

	// RefreshRatePerMin caps POST /api/refresh.
	RefreshRatePerMin int `koanf:"refresh_rate_per_min"`

	// ConsoleSummary enables the styled stdout summary after every update.
	ConsoleSummary bool `koanf:"console_summary"`

	// MaxWSClients caps concurrent websocket connections.
	MaxWSClients int `koanf:"max_ws_clients"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		SourceURL:         "http://localhost:9191/pub?output=csv",
		RefreshIntervalMS: 30_000,
		FetchTimeoutMS:    0,
		DemLabel:          "Harris",
		RepLabel:          "Trump",
		RegionCodes:       StateCodes(),
		RefreshRatePerMin: 6,
		ConsoleSummary:    false,
		MaxWSClients:      1_000,
	}
}

// RefreshInterval returns the poll period as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// FetchTimeout returns the per-fetch timeout; zero disables it.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// StateCodes returns the default region table: US state names to USPS codes.
func StateCodes() map[string]string {
	return map[string]string{
		"Alabama":              "AL",
		"Alaska":               "AK",
		"Arizona":              "AZ",
		"Arkansas":             "AR",
		"California":           "CA",
		"Colorado":             "CO",
		"Connecticut":          "CT",
		"Delaware":             "DE",
		"District of Columbia": "DC",
		"Florida":              "FL",
		"Georgia":              "GA",
		"Hawaii":               "HI",
		"Idaho":                "ID",
		"Illinois":             "IL",
		"Indiana":              "IN",
		"Iowa":                 "IA",
		"Kansas":               "KS",
		"Kentucky":             "KY",
		"Louisiana":            "LA",
		"Maine":                "ME",
		"Maryland":             "MD",
		"Massachusetts":        "MA",
		"Michigan":             "MI",
		"Minnesota":            "MN",
		"Mississippi":          "MS",
		"Missouri":             "MO",
		"Montana":              "MT",
		"Nebraska":             "NE",
		"Nevada":               "NV",
		"New Hampshire":        "NH",
		"New Jersey":           "NJ",
		"New Mexico":           "NM",
		"New York":             "NY",
		"North Carolina":       "NC",
		"North Dakota":         "ND",
		"Ohio":                 "OH",
		"Oklahoma":             "OK",
		"Oregon":               "OR",
		"Pennsylvania":         "PA",
		"Rhode Island":         "RI",
		"South Carolina":       "SC",
		"South Dakota":         "SD",
		"Tennessee":            "TN",
		"Texas":                "TX",
		"Utah":                 "UT",
		"Vermont":              "VT",
		"Virginia":             "VA",
		"Washington":           "WA",
		"West Virginia":        "WV",
		"Wisconsin":            "WI",
		"Wyoming":              "WY",
	}
}
