package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/tallymap/internal/app"
	"github.com/okian/tallymap/internal/domain/types"
)

// ResultsDependencies defines the read operations behind /api/results.
type ResultsDependencies interface {
	Results() types.Results
	Region(name string) (types.Region, error)
}

// ResultsHandler serves snapshot reads.
type ResultsHandler struct {
	deps ResultsDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResults handles GET /api/results requests.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Results())
}

// HandleGetRegion handles GET /api/regions/{name} requests.
func (h *ResultsHandler) HandleGetRegion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	region, err := h.deps.Region(name)
	if err != nil {
		if errors.Is(err, service.ErrRegionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}
