package service

import "errors"

var (
	// ErrRegionNotFound is returned by Region for names absent from the latest snapshot.
	ErrRegionNotFound = errors.New("region not found")
	// ErrRefreshInFlight is returned by Refresh when a cycle is already running.
	ErrRefreshInFlight = errors.New("refresh already in flight")
	// ErrNoSource is returned by Start when no source URL is configured.
	ErrNoSource = errors.New("no source url configured")
	// ErrNoFetcher is returned by Start when no fetcher is configured.
	ErrNoFetcher = errors.New("no fetcher configured")
)
