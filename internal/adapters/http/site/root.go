// Package site serves the embedded live results dashboard.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard at / to mux. More specific routes
// registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
