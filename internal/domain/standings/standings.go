// Package standings folds per-race results into ranked championship tables.
package standings

import (
	"sort"

	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
)

// NoCeiling includes every round in the input.
const NoCeiling = 0

// Aggregate computes driver and constructor standings from ordered race
// results, restricted to rounds <= roundCeiling when roundCeiling > 0.
//
// Constructor totals sum over every driver who raced for that constructor;
// a driver who switched teams mid-season contributes to each constructor
// only the rounds driven for it. Entities with no result in the window do
// not appear at all.
func Aggregate(records []model.RaceResult, roundCeiling int) (drivers, constructors []types.Entry) {
	driverAcc := make(map[string]*types.Entry)
	constructorAcc := make(map[string]*types.Entry)

	for _, r := range records {
		if roundCeiling > NoCeiling && r.Round > roundCeiling {
			continue
		}
		accumulate(driverAcc, r.DriverID, r)
		accumulate(constructorAcc, r.ConstructorID, r)
	}

	return rank(driverAcc), rank(constructorAcc)
}

func accumulate(acc map[string]*types.Entry, id string, r model.RaceResult) {
	e, ok := acc[id]
	if !ok {
		e = &types.Entry{ID: id}
		acc[id] = e
	}
	e.Points += r.Points
	if r.IsWin() {
		e.Wins++
	}
	if r.IsPodium() {
		e.Podiums++
	}
}

// rank sorts accumulated entries into a strict total order and assigns
// ranks 1..N. The order is points desc, wins desc, podiums desc, id asc;
// the id tie-break guarantees determinism even for identical records.
func rank(acc map[string]*types.Entry) []types.Entry {
	entries := make([]types.Entry, 0, len(acc))
	for _, e := range acc {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Points != b.Points:
			return a.Points > b.Points
		case a.Wins != b.Wins:
			return a.Wins > b.Wins
		case a.Podiums != b.Podiums:
			return a.Podiums > b.Podiums
		default:
			return a.ID < b.ID
		}
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
