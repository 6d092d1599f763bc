package api

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/tallymap/internal/adapters/source"
	service "github.com/okian/tallymap/internal/app"
	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/pkg/logger"
)

// RefreshDependencies defines the interface for manual refreshes.
type RefreshDependencies interface {
	Refresh(ctx context.Context) error
	Results() types.Results
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps    RefreshDependencies
	limiter *rate.Limiter
	log     logger.Logger
}

// NewRefreshHandler creates a handler allowing one refresh per 10s with a
// burst of one until a limiter is configured.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{
		deps:    deps,
		limiter: rate.NewLimiter(rate.Limit(0.1), 1),
		log:     logger.Nop(),
	}
}

// HandlePostRefresh handles POST /api/refresh requests.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	if !h.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
		return
	}

	err := h.deps.Refresh(r.Context())
	var fe *source.FetchError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, h.deps.Results())
	case errors.Is(err, service.ErrRefreshInFlight):
		writeError(w, http.StatusConflict, "in_flight", err)
	case errors.As(err, &fe):
		h.log.Warn(r.Context(), "manual refresh failed", logger.Error(err))
		writeError(w, http.StatusBadGateway, "source_unavailable", err)
	default:
		h.log.Error(r.Context(), "manual refresh failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
