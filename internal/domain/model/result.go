// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// MinSeason is the first world championship season.
const MinSeason = 1950

// PositionNotClassified marks a driver who started but was not classified.
const PositionNotClassified = 0

// RaceResult is one driver's classification in one race. Records are
// immutable once the round is final, which is what allows the cache to
// retain them for the life of the process.
type RaceResult struct {
	Season        int
	Round         int
	RaceName      string
	DriverID      string
	ConstructorID string
	Position      int // finishing position, PositionNotClassified if unclassified
	Points        float64
}

// IsWin reports whether the result is a race win.
func (r RaceResult) IsWin() bool { return r.Position == 1 }

// IsPodium reports whether the result is a podium finish.
func (r RaceResult) IsPodium() bool { return r.Position >= 1 && r.Position <= 3 }

// Validate rejects malformed records at the adapter boundary so that
// loosely-shaped upstream rows never reach the aggregator.
func (r RaceResult) Validate() error {
	switch {
	case r.Season < MinSeason:
		return fmt.Errorf("season %d predates %d", r.Season, MinSeason)
	case r.Round < 1:
		return fmt.Errorf("round %d is not positive", r.Round)
	case r.DriverID == "":
		return fmt.Errorf("round %d: missing driver id", r.Round)
	case r.ConstructorID == "":
		return fmt.Errorf("round %d: missing constructor id", r.Round)
	case r.Position < 0:
		return fmt.Errorf("round %d: negative position %d", r.Round, r.Position)
	case r.Points < 0:
		return fmt.Errorf("round %d: negative points %v", r.Round, r.Points)
	}
	return nil
}

// ScheduleRound is one race on a season's calendar.
type ScheduleRound struct {
	Round int
	Name  string
	Date  time.Time
}

// Schedule is a season's race calendar as reported by the upstream provider.
type Schedule struct {
	Season int
	Rounds []ScheduleRound
}

// RoundCount returns the number of rounds on the calendar.
func (s Schedule) RoundCount() int { return len(s.Rounds) }

// Concluded reports whether the season's final round has already been run,
// i.e. whether its results are stable and may be cached indefinitely.
func (s Schedule) Concluded(now time.Time) bool {
	if len(s.Rounds) == 0 {
		return false
	}
	last := s.Rounds[len(s.Rounds)-1].Date
	if last.IsZero() {
		// Very old seasons come without dates; they are long over.
		return s.Season < now.Year()
	}
	// Give the provider a day to finalize the classification.
	return now.After(last.Add(24 * time.Hour))
}

// ValidSeason reports whether season falls in the accepted range,
// MinSeason through the current calendar year.
func ValidSeason(season int, now time.Time) bool {
	return season >= MinSeason && season <= now.Year()
}
