// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// StandingsDependencies defines the interface for standings operations.
type StandingsDependencies interface {
	GetStandings(ctx context.Context, season, roundCeiling int) (drivers, constructors []Entry, err error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

type standingsResponse struct {
	Season       int     `json:"season"`
	Round        int     `json:"round,omitempty"`
	Drivers      []Entry `json:"drivers"`
	Constructors []Entry `json:"constructors"`
}

// HandleGetStandings handles GET /standings?season=YYYY[&round=N] requests.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, roundCeiling, err := seasonAndRound(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	drivers, constructors, err := h.deps.GetStandings(r.Context(), season, roundCeiling)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{
		Season:       season,
		Round:        roundCeiling,
		Drivers:      drivers,
		Constructors: constructors,
	})
}
