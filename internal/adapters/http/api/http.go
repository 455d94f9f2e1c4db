// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/cache"
	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/upstream"
	service "github.com/krish-25k/f1-championship-analyzer/internal/app"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/progression"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GetStandings(ctx context.Context, season, roundCeiling int) (drivers, constructors []types.Entry, err error)
	GetProgression(ctx context.Context, season int, driverIDs []string, roundCeiling int) (map[string][]types.Point, error)
	GetSeason(ctx context.Context, season int) (model.Schedule, error)
}

// Entry mirrors the read shape returned by standings queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	standingsHandler   *StandingsHandler
	progressionHandler *ProgressionHandler
	seasonsHandler     *SeasonsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		standingsHandler:   NewStandingsHandler(deps),
		progressionHandler: NewProgressionHandler(deps),
		seasonsHandler:     NewSeasonsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/standings", RequestIDMiddleware(MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings")))
	mux.HandleFunc("/progression", RequestIDMiddleware(MetricsMiddleware(s.progressionHandler.HandleGetProgression, "progression")))
	mux.HandleFunc("/seasons/", RequestIDMiddleware(MetricsMiddleware(s.seasonsHandler.HandleGetSeason, "seasons")))
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

// writeDomainError translates core error kinds to HTTP statuses. The
// message keeps the wrapped season/round context so partial coverage is
// distinguishable from total failure on the client side.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSeason):
		writeError(w, http.StatusBadRequest, "invalid_season", err)
	case errors.Is(err, service.ErrInvalidRoundCeiling):
		writeError(w, http.StatusBadRequest, "invalid_round", err)
	case errors.Is(err, progression.ErrTooManyDrivers):
		writeError(w, http.StatusBadRequest, "too_many_drivers", err)
	case errors.Is(err, progression.ErrNoMatchingDrivers):
		writeError(w, http.StatusNotFound, "no_matching_drivers", err)
	case errors.Is(err, upstream.ErrDataMissing):
		writeError(w, http.StatusNotFound, "data_missing", err)
	case errors.Is(err, upstream.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "upstream_rate_limited", err)
	case errors.Is(err, upstream.ErrUnavailable), errors.Is(err, cache.ErrFetchInFlight):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
