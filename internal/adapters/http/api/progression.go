// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
)

// ProgressionDependencies defines the interface for progression operations.
type ProgressionDependencies interface {
	GetProgression(ctx context.Context, season int, driverIDs []string, roundCeiling int) (map[string][]types.Point, error)
}

// ProgressionHandler handles progression chart payload requests.
type ProgressionHandler struct {
	deps ProgressionDependencies
}

// NewProgressionHandler creates a new progression handler.
func NewProgressionHandler(deps ProgressionDependencies) *ProgressionHandler {
	return &ProgressionHandler{deps: deps}
}

type progressionResponse struct {
	Season int                      `json:"season"`
	Round  int                      `json:"round,omitempty"`
	Series map[string][]types.Point `json:"series"`
}

// HandleGetProgression handles
// GET /progression?season=YYYY&drivers=a,b[&round=N] requests.
func (h *ProgressionHandler) HandleGetProgression(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_progression"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, roundCeiling, err := seasonAndRound(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	driverIDs := splitDrivers(r.URL.Query().Get("drivers"))
	if len(driverIDs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	series, err := h.deps.GetProgression(r.Context(), season, driverIDs, roundCeiling)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse{
		Season: season,
		Round:  roundCeiling,
		Series: series,
	})
}

// splitDrivers parses the comma-separated drivers parameter, dropping
// empty segments.
func splitDrivers(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
