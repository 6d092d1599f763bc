// Package tally turns a published-sheet CSV body into per-region tallies and
// folds them into totals.
//
// Parsing is deliberately lenient: malformed rows are dropped or defaulted,
// never reported as errors. Columns are split on every comma with no quote
// handling, so a quoted field containing a comma spills into the next column.
package tally

import (
	"strconv"
	"strings"

	"github.com/okian/tallymap/internal/domain/model"
)

// Column layout of a data row. Columns past colWinner are ignored.
const (
	colName = iota
	colDem
	colRep
	colUnits
	colWinner

	minColumns = colWinner + 1
)

// countFallback is what parseCount yields for anything it cannot read.
const countFallback = 0

// Result is the outcome of parsing one CSV body.
type Result struct {
	Regions model.Regions

	// Row statistics for logging; they never make Parse fail.
	Rows           int // data rows seen (header and blank lines excluded)
	Accepted       int // rows written into Regions, including overwrites
	SkippedShort   int // rows with fewer than five columns
	SkippedInvalid int // rows with an empty name or zero units
}

// Parse converts a CSV body into a fresh region mapping.
//
// Lines are split on '\n' and blank lines dropped. The first remaining line
// is the header and is never read as data. For a repeated region name the
// last row wins.
func Parse(body string) Result {
	res := Result{Regions: make(model.Regions)}

	lines := nonBlankLines(body)
	if len(lines) == 0 {
		return res
	}

	for _, line := range lines[1:] {
		res.Rows++

		cols := strings.Split(line, ",")
		if len(cols) < minColumns {
			res.SkippedShort++
			continue
		}

		name := cleanField(cols[colName])
		t := model.RegionTally{
			Dem:    clampBallots(parseCount(cols[colDem])),
			Rep:    clampBallots(parseCount(cols[colRep])),
			Units:  parseCount(cols[colUnits]),
			Winner: cleanField(cols[colWinner]),
		}
		if name == "" || t.Units == 0 {
			res.SkippedInvalid++
			continue
		}

		res.Regions[name] = t
		res.Accepted++
	}
	return res
}

func nonBlankLines(body string) []string {
	raw := strings.Split(body, "\n")
	out := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// cleanField trims whitespace and then strips at most one leading and one
// trailing quote character (' or ").
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && isQuote(s[0]) {
		s = s[1:]
	}
	if s != "" && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isQuote(c byte) bool { return c == '"' || c == '\'' }

// parseCount reads an integer from a sheet cell. Thousands separators and
// surrounding whitespace are removed, then the leading run of digits (with an
// optional sign) is parsed; "12 votes" reads as 12. Empty, non-numeric or
// out-of-range input yields countFallback.
func parseCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return countFallback
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return countFallback
	}
	return n
}

// clampBallots keeps ballot counts non-negative.
func clampBallots(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
