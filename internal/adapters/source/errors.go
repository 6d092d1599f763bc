package source

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch.
type Kind string

const (
	// KindNetwork covers transport failures: DNS, refused connections,
	// timeouts, and bodies that could not be read to the end.
	KindNetwork Kind = "network"
	// KindHTTPStatus covers responses outside 200-299.
	KindHTTPStatus Kind = "http_status"
)

// Sentinel errors matched by FetchError through errors.Is.
var (
	ErrNetwork    = errors.New("source network error")
	ErrHTTPStatus = errors.New("source returned non-success status")
)

// FetchError describes why a fetch produced no body.
type FetchError struct {
	Kind       Kind
	URL        string
	StatusCode int // set for KindHTTPStatus
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	var kind error = ErrNetwork
	if e.Kind == KindHTTPStatus {
		kind = ErrHTTPStatus
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}
