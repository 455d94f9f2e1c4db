// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	service "github.com/krish-25k/f1-championship-analyzer/internal/app"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
)

// SeasonDependencies defines the interface for schedule lookups.
type SeasonDependencies interface {
	GetSeason(ctx context.Context, season int) (model.Schedule, error)
}

// SeasonsHandler handles season calendar requests.
type SeasonsHandler struct {
	deps SeasonDependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps SeasonDependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

type scheduleRound struct {
	Round int    `json:"round"`
	Name  string `json:"name"`
	Date  string `json:"date,omitempty"`
}

type scheduleResponse struct {
	Season    int             `json:"season"`
	Rounds    []scheduleRound `json:"rounds"`
	Concluded bool            `json:"concluded"`
}

// HandleGetSeason handles GET /seasons/{year} requests.
func (h *SeasonsHandler) HandleGetSeason(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/seasons/")
	season, err := strconv.Atoi(path)
	if err != nil || strings.Contains(path, "/") {
		writeDomainError(w, service.ErrInvalidSeason)
		return
	}
	sched, err := h.deps.GetSeason(r.Context(), season)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rounds := make([]scheduleRound, 0, len(sched.Rounds))
	for _, rd := range sched.Rounds {
		out := scheduleRound{Round: rd.Round, Name: rd.Name}
		if !rd.Date.IsZero() {
			out.Date = rd.Date.Format("2006-01-02")
		}
		rounds = append(rounds, out)
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		Season:    sched.Season,
		Rounds:    rounds,
		Concluded: sched.Concluded(time.Now()),
	})
}
