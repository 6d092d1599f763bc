package sheetsim

import (
	"net/http"
)

// RevisionHeader carries the sheet revision on every CSV response.
const RevisionHeader = "X-Sheet-Revision"

// Handler serves the sheet at GET /pub?output=csv, the way a published
// spreadsheet does.
func (s *Sim) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pub", s.handlePub)
	return mux
}

func (s *Sim) handlePub(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("output") != "csv" {
		http.Error(w, ErrUnsupportedOutput.Error(), http.StatusBadRequest)
		return
	}
	if s.shouldFail() {
		http.Error(w, ErrInjected.Error(), http.StatusInternalServerError)
		return
	}

	body, rev := s.Render(r.Context())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(RevisionHeader, rev)
	_, _ = w.Write([]byte(body))
}
