// Package progression derives cumulative points series for charting.
package progression

import (
	"fmt"
	"sort"

	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
)

// MaxDrivers caps the number of drivers in a single progression request.
const MaxDrivers = 10

// Build returns, for each requested driver, their race-indexed cumulative
// points through roundCeiling (all rounds when roundCeiling <= 0).
//
// The series is sparse: one point per round the driver actually started,
// nothing interpolated for rounds missed. Forward-filling a dense series
// for display is the renderer's job, not this package's.
func Build(records []model.RaceResult, driverIDs []string, roundCeiling int) (map[string][]types.Point, error) {
	if len(driverIDs) > MaxDrivers {
		return nil, fmt.Errorf("%w: %d requested, limit %d", ErrTooManyDrivers, len(driverIDs), MaxDrivers)
	}

	wanted := make(map[string]bool, len(driverIDs))
	for _, id := range driverIDs {
		wanted[id] = true
	}

	perDriver := make(map[string][]model.RaceResult, len(driverIDs))
	for _, r := range records {
		if roundCeiling > 0 && r.Round > roundCeiling {
			continue
		}
		if !wanted[r.DriverID] {
			continue
		}
		perDriver[r.DriverID] = append(perDriver[r.DriverID], r)
	}
	if len(perDriver) == 0 {
		return nil, ErrNoMatchingDrivers
	}

	series := make(map[string][]types.Point, len(perDriver))
	for id, results := range perDriver {
		sort.Slice(results, func(i, j int) bool { return results[i].Round < results[j].Round })
		points := make([]types.Point, 0, len(results))
		var total float64
		for _, r := range results {
			total += r.Points
			points = append(points, types.Point{Round: r.Round, Points: total})
		}
		series[id] = points
	}
	return series, nil
}
