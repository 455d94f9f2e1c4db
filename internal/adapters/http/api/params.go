package api

import (
	"fmt"
	"net/http"
	"strconv"

	service "github.com/krish-25k/f1-championship-analyzer/internal/app"
)

// seasonAndRound parses the season query parameter (required) and the
// round ceiling (optional; when present it must be a positive integer).
// A missing round means the whole season and is returned as 0.
func seasonAndRound(r *http.Request) (season, roundCeiling int, err error) {
	q := r.URL.Query()

	season, err = strconv.Atoi(q.Get("season"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: season %q", service.ErrInvalidSeason, q.Get("season"))
	}

	if raw := q.Get("round"); raw != "" {
		roundCeiling, err = strconv.Atoi(raw)
		if err != nil || roundCeiling < 1 {
			return 0, 0, fmt.Errorf("%w: round %q", service.ErrInvalidRoundCeiling, raw)
		}
	}
	return season, roundCeiling, nil
}
