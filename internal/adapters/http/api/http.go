// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Results returns the latest published snapshot.
	Results() types.Results
	// Region returns one region by sheet name or map key.
	Region(name string) (types.Region, error)
	// Refresh runs a cycle now; it fails fast when one is in flight.
	Refresh(ctx context.Context) error

	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	resultsHandler *ResultsHandler
	refreshHandler *RefreshHandler
	ws             http.Handler
	log            logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRefreshLimiter caps POST /api/refresh.
func WithRefreshLimiter(l *rate.Limiter) Option {
	return func(s *Server) {
		if l != nil {
			s.refreshHandler.limiter = l
		}
	}
}

// WithWebsocket mounts h at /ws.
func WithWebsocket(h http.Handler) Option {
	return func(s *Server) {
		s.ws = h
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		resultsHandler: NewResultsHandler(deps),
		refreshHandler: NewRefreshHandler(deps),
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refreshHandler.log = s.log
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/results", MetricsMiddleware(s.resultsHandler.HandleGetResults, "results"))
	mux.HandleFunc("/api/regions/{name}", MetricsMiddleware(s.resultsHandler.HandleGetRegion, "region"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))

	// Long-lived; request metrics would only measure connection lifetime.
	if s.ws != nil {
		mux.Handle("/ws", s.ws)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
