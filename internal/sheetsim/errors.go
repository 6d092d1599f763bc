package sheetsim

import "errors"

var (
	// ErrUnsupportedOutput is returned for any output format other than csv.
	ErrUnsupportedOutput = errors.New("only output=csv is supported")
	// ErrInjected marks a failure produced by WithFailEvery.
	ErrInjected = errors.New("injected sheet failure")
	// ErrMismatch is returned by Verify callers when the service disagrees with the sheet.
	ErrMismatch = errors.New("service results do not match the sheet")
	// ErrStaleResults is returned by Verify callers when the service declined
	// to refresh and its results predate the sheet that was compared.
	ErrStaleResults = errors.New("service results predate the sheet, retry later")
	// ErrUnexpectedStatus is returned when the service answers with an unexpected status.
	ErrUnexpectedStatus = errors.New("unexpected status from service")
)
