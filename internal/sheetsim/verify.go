package sheetsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/okian/tallymap/internal/adapters/source"
	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/tally"
	"github.com/okian/tallymap/internal/domain/types"
)

// Report compares totals computed from the sheet with what the service serves.
type Report struct {
	Sheet           model.Totals
	SheetRegions    int
	Service         types.Totals
	ServiceRegions  int
	ServiceRevision string
	// Stale is set when the service declined to refresh and still serves the
	// revision it had before the sheet was fetched.
	Stale      bool
	Mismatches []string
}

// OK reports whether the service agrees with the sheet.
func (r Report) OK() bool { return len(r.Mismatches) == 0 }

// Err returns ErrMismatch listing every difference, or nil. Differences
// against stale results are reported as ErrStaleResults instead.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	if r.Stale {
		return fmt.Errorf("%w: %s", ErrStaleResults, strings.Join(r.Mismatches, "; "))
	}
	return fmt.Errorf("%w: %s", ErrMismatch, strings.Join(r.Mismatches, "; "))
}

// Verify fetches the sheet, asks the service at apiURL to refresh, and compares
// the service's totals with totals computed locally from the same sheet.
// A refresh refused with 409 or 429 falls back to results read after the
// sheet fetch.
func Verify(ctx context.Context, client *http.Client, sheetURL, apiURL string) (Report, error) {
	if client == nil {
		client = http.DefaultClient
	}
	apiURL = strings.TrimRight(apiURL, "/")

	current, err := getResults(ctx, client, apiURL)
	if err != nil {
		return Report{}, err
	}
	labels := model.Labels{Dem: current.DemLabel, Rep: current.RepLabel}

	body, err := source.NewHTTPFetcher(source.WithHTTPClient(client)).Fetch(ctx, sheetURL)
	if err != nil {
		return Report{}, err
	}
	parsed := tally.Parse(body)

	served, err := refresh(ctx, client, apiURL)
	if err != nil {
		return Report{}, err
	}
	stale := false
	if served == nil {
		latest, err := getResults(ctx, client, apiURL)
		if err != nil {
			return Report{}, err
		}
		served = &latest
		stale = latest.Revision == current.Revision
	}

	rep := Report{
		Sheet:           tally.Aggregate(parsed.Regions, labels),
		SheetRegions:    len(parsed.Regions),
		Service:         served.Totals,
		ServiceRegions:  len(served.Regions),
		ServiceRevision: served.Revision,
		Stale:           stale,
	}
	rep.compare()
	return rep, nil
}

func (r *Report) compare() {
	check := func(what string, want, got int) {
		if want != got {
			r.Mismatches = append(r.Mismatches,
				fmt.Sprintf("%s: sheet %s, service %s", what, humanize.Comma(int64(want)), humanize.Comma(int64(got))))
		}
	}
	check("dem units", r.Sheet.DemUnits, r.Service.DemUnits)
	check("rep units", r.Sheet.RepUnits, r.Service.RepUnits)
	check("dem raw", r.Sheet.DemRaw, r.Service.DemRaw)
	check("rep raw", r.Sheet.RepRaw, r.Service.RepRaw)
	check("regions", r.SheetRegions, r.ServiceRegions)
}

func getResults(ctx context.Context, client *http.Client, apiURL string) (types.Results, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/results", http.NoBody)
	if err != nil {
		return types.Results{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return types.Results{}, fmt.Errorf("get results: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return types.Results{}, fmt.Errorf("%w: GET /api/results: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	var out types.Results
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Results{}, fmt.Errorf("decode results: %w", err)
	}
	return out, nil
}

// refresh returns the refreshed results, or nil when the service declined
// to refresh right now.
func refresh(ctx context.Context, client *http.Client, apiURL string) (*types.Results, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/refresh", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out types.Results
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode refresh: %w", err)
		}
		return &out, nil
	case http.StatusConflict, http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: POST /api/refresh: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}
